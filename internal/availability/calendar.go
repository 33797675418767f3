// Package availability turns reservations into blocked calendar ranges and
// checks proposed stays against them.
package availability

import (
	"errors"
	"time"

	"staybook/internal/models"
)

var (
	ErrInvalidStay      = errors.New("check-out must be after check-in")
	ErrDatesUnavailable = errors.New("selected dates are not available")
)

// BlockedRanges returns one closed interval per active reservation, ending
// the day before check-out since that day is free for the next arrival.
//
// Dates are blocked globally: room type and room count are ignored.
func BlockedRanges(reservations []models.Reservation) []models.Interval {
	out := make([]models.Interval, 0, len(reservations))
	for _, r := range reservations {
		if r.IsCancelled() || !r.HasStay() {
			continue
		}
		out = append(out, models.Interval{
			From: r.CheckIn,
			To:   r.CheckOut.AddDate(0, 0, -1),
		})
	}
	return out
}

// Conflicts reports whether the half-open stay [checkIn, checkOut) shares
// at least one night with any blocked interval.
func Conflicts(checkIn, checkOut time.Time, reservations []models.Reservation) (bool, error) {
	checkIn, checkOut = truncateDay(checkIn), truncateDay(checkOut)
	if !checkOut.After(checkIn) {
		return false, ErrInvalidStay
	}
	for _, blocked := range BlockedRanges(reservations) {
		end := blocked.To.AddDate(0, 0, 1)
		if checkIn.Before(end) && blocked.From.Before(checkOut) {
			return true, nil
		}
	}
	return false, nil
}

// ValidateStay is Conflicts folded into a single error.
func ValidateStay(checkIn, checkOut time.Time, reservations []models.Reservation) error {
	conflict, err := Conflicts(checkIn, checkOut, reservations)
	if err != nil {
		return err
	}
	if conflict {
		return ErrDatesUnavailable
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
