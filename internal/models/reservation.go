package models

import "time"

// Reservation is a guest's booking request.
type Reservation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoomType  string `json:"room_type"`
	Rooms     int64  `json:"rooms"`
	Adults    int64  `json:"adults"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`

	// Zero when the stored value is missing or malformed.
	CheckIn  time.Time `json:"-"`
	CheckOut time.Time `json:"-"`
}

func ReservationFromRecord(r Record) Reservation {
	res := Reservation{
		ID:        r.String("id"),
		Name:      r.String("name"),
		Email:     r.String("email"),
		Phone:     r.String("phone"),
		RoomType:  r.String("room_type", "room_name"),
		Rooms:     r.Int("rooms", "quantity", "rooms_count"),
		Adults:    r.Int("adults"),
		Message:   r.String("message", "notes"),
		Status:    r.String("status"),
		CreatedAt: r.String("created_at"),
	}
	if res.Rooms <= 0 {
		res.Rooms = 1
	}
	if day, ok := r.Day("check_in", "checkin", "start"); ok {
		res.CheckIn = day
	}
	if day, ok := r.Day("check_out", "checkout", "end"); ok {
		res.CheckOut = day
	}
	return res
}

func ReservationsFromRecords(records []Record) []Reservation {
	out := make([]Reservation, 0, len(records))
	for _, r := range records {
		out = append(out, ReservationFromRecord(r))
	}
	return out
}

// HasStay reports whether both stay dates are present and ordered.
func (r Reservation) HasStay() bool {
	return !r.CheckIn.IsZero() && !r.CheckOut.IsZero() && r.CheckOut.After(r.CheckIn)
}

// IsCancelled treats a missing status as active.
func (r Reservation) IsCancelled() bool {
	return StatusIs(r.Status, StatusCancelled)
}

// CreatedDay is the calendar day of the creation timestamp as stored.
func (r Reservation) CreatedDay() string {
	if len(r.CreatedAt) < len(DayLayout) {
		return r.CreatedAt
	}
	return r.CreatedAt[:len(DayLayout)]
}

// CheckIn is the operational record of a stay, distinct from the
// reservation that originated it.
type CheckIn struct {
	RoomType string    `json:"room_type"`
	RoomName string    `json:"room_name"`
	Rooms    int64     `json:"rooms"` // 0 when absent
	Status   string    `json:"status"`
	Date     time.Time `json:"-"`
}

func CheckInFromRecord(r Record) CheckIn {
	ci := CheckIn{
		RoomType: r.String("room_type"),
		RoomName: r.String("room_name"),
		Rooms:    r.Int("rooms", "quantity"),
		Status:   r.String("status"),
	}
	if day, ok := r.Day("check_in", "checkin"); ok {
		ci.Date = day
	}
	return ci
}

func CheckInsFromRecords(records []Record) []CheckIn {
	out := make([]CheckIn, 0, len(records))
	for _, r := range records {
		out = append(out, CheckInFromRecord(r))
	}
	return out
}
