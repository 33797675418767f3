package dashboard

import (
	"context"
	"sync"

	"staybook/internal/models"
)

// Collection names, also used as metric and log labels.
const (
	CollectionRooms        = "rooms"
	CollectionReservations = "reservations"
	CollectionCheckIns     = "guest_checkins"
)

// FetchFunc loads one raw collection.
type FetchFunc func(ctx context.Context) ([]models.Record, error)

// Settled is the outcome of one fetch. Records is nil when Err is set.
type Settled struct {
	Records []models.Record
	Err     error
}

// Sources holds the three independently fetched collections.
type Sources struct {
	Rooms        Settled
	Reservations Settled
	CheckIns     Settled
}

func (s Sources) AllFailed() bool {
	return s.Rooms.Err != nil && s.Reservations.Err != nil && s.CheckIns.Err != nil
}

// Failed lists the collections that could not be loaded.
func (s Sources) Failed() []string {
	var out []string
	if s.Rooms.Err != nil {
		out = append(out, CollectionRooms)
	}
	if s.Reservations.Err != nil {
		out = append(out, CollectionReservations)
	}
	if s.CheckIns.Err != nil {
		out = append(out, CollectionCheckIns)
	}
	return out
}

// SettleAll runs the fetches concurrently. Each one settles on its own; a
// failure never cancels the others.
func SettleAll(ctx context.Context, rooms, reservations, checkins FetchFunc) Sources {
	var (
		src Sources
		wg  sync.WaitGroup
	)

	settle := func(dst *Settled, fetch FetchFunc) {
		defer wg.Done()
		records, err := fetch(ctx)
		if err != nil {
			*dst = Settled{Err: err}
			return
		}
		*dst = Settled{Records: records}
	}

	wg.Add(3)
	go settle(&src.Rooms, rooms)
	go settle(&src.Reservations, reservations)
	go settle(&src.CheckIns, checkins)
	wg.Wait()

	return src
}
