// Package dashboard derives the admin dashboard summary from raw room,
// reservation and check-in snapshots.
package dashboard

import (
	"errors"
	"time"

	"staybook/internal/models"
)

// ErrSummaryUnavailable means no source could be loaded at all, as opposed
// to a legitimately empty (all-zero) summary.
var ErrSummaryUnavailable = errors.New("unable to compute summary: all sources failed")

// Aggregator computes summaries as of Now in Location.
type Aggregator struct {
	Now      func() time.Time
	Location *time.Location
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{Now: time.Now, Location: loc}
}

func (a *Aggregator) today() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeSummary derives all dashboard metrics from one snapshot.
func (a *Aggregator) ComputeSummary(rooms []models.Room, reservations []models.Reservation, checkins []models.CheckIn) models.Summary {
	today := a.today()
	labels, data := ChartSeries(checkins, today)

	return models.Summary{
		TotalToday:     TotalToday(reservations, today),
		Revenue:        Revenue(rooms, checkins),
		AvailableRooms: AvailableRooms(rooms, checkins),
		Pending:        Pending(reservations),
		ChartLabels:    labels,
		ChartData:      data,
	}
}

// FromSources applies the degradation policy: failed collections count as
// empty unless every collection failed.
func (a *Aggregator) FromSources(src Sources) (models.Summary, error) {
	if src.AllFailed() {
		return models.Summary{}, ErrSummaryUnavailable
	}
	return a.ComputeSummary(
		models.RoomsFromRecords(src.Rooms.Records),
		models.ReservationsFromRecords(src.Reservations.Records),
		models.CheckInsFromRecords(src.CheckIns.Records),
	), nil
}

// TotalToday counts confirmed reservations created on today's date.
func TotalToday(reservations []models.Reservation, today time.Time) int64 {
	key := today.Format(models.DayLayout)
	var n int64
	for _, r := range reservations {
		if r.CreatedDay() == key && models.StatusIs(r.Status, models.StatusConfirmed) {
			n++
		}
	}
	return n
}

// Revenue prices every checked-in or checked-out stay by room name.
func Revenue(rooms []models.Room, checkins []models.CheckIn) float64 {
	prices := make(map[string]float64, len(rooms))
	for _, room := range rooms {
		if room.Name != "" {
			prices[room.Name] = room.Price
		}
	}

	var total float64
	for _, ci := range checkins {
		if !models.StatusIs(ci.Status, models.StatusCheckedIn) && !models.StatusIs(ci.Status, models.StatusCheckedOut) {
			continue
		}
		price, ok := prices[ci.RoomType]
		if !ok {
			price = prices[ci.RoomName]
		}
		count := ci.Rooms
		if count <= 0 {
			count = 1
		}
		total += price * float64(count)
	}
	return total
}

// AvailableRooms is the room count minus occupied rooms, floored at zero.
func AvailableRooms(rooms []models.Room, checkins []models.CheckIn) int64 {
	var occupied int64
	for _, ci := range checkins {
		if models.StatusIs(ci.Status, models.StatusCheckedIn) {
			occupied += ci.Rooms
		}
	}
	return max(int64(len(rooms))-occupied, 0)
}

func Pending(reservations []models.Reservation) int64 {
	var n int64
	for _, r := range reservations {
		if models.StatusIs(r.Status, models.StatusPending) {
			n++
		}
	}
	return n
}

// ChartSeries counts check-ins per day over the ChartDays window ending at
// today, oldest first.
func ChartSeries(checkins []models.CheckIn, today time.Time) ([]string, []int64) {
	start := today.AddDate(0, 0, -(models.ChartDays - 1))
	labels := make([]string, models.ChartDays)
	data := make([]int64, models.ChartDays)
	index := make(map[string]int, models.ChartDays)

	for i := range models.ChartDays {
		d := start.AddDate(0, 0, i)
		labels[i] = d.Format(models.ChartLabelLayout)
		index[d.Format(models.DayLayout)] = i
	}

	for _, ci := range checkins {
		if ci.Date.IsZero() || !models.StatusIs(ci.Status, models.StatusCheckedIn) {
			continue
		}
		if i, ok := index[ci.Date.Format(models.DayLayout)]; ok {
			data[i]++
		}
	}
	return labels, data
}
