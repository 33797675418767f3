package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"staybook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 18, 15, 30, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	agg := NewAggregator(time.UTC)
	agg.Now = func() time.Time { return fixedNow }
	return agg
}

func TestComputeSummary_Scenario(t *testing.T) {
	agg := newTestAggregator()
	src := Sources{
		Rooms: Settled{Records: []models.Record{{"room_name": "Deluxe", "price": 2000.0}}},
		Reservations: Settled{Records: []models.Record{
			{"status": "Confirmed", "created_at": "2025-10-18T09:12:00Z"},
		}},
		CheckIns: Settled{Records: []models.Record{
			{"room_type": "Deluxe", "status": "checked-in", "rooms": 2.0, "check_in": "2025-10-18"},
		}},
	}

	got, err := agg.FromSources(src)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.TotalToday)
	assert.Equal(t, 4000.0, got.Revenue)
	assert.Equal(t, int64(0), got.AvailableRooms)
	assert.Equal(t, int64(0), got.Pending)
	require.Len(t, got.ChartData, models.ChartDays)
	assert.Equal(t, int64(1), got.ChartData[models.ChartDays-1])
	assert.Equal(t, "Oct 18", got.ChartLabels[models.ChartDays-1])
	assert.Equal(t, "Sep 19", got.ChartLabels[0])
}

func TestComputeSummary_Idempotent(t *testing.T) {
	agg := newTestAggregator()
	rooms := []models.Room{{Name: "Deluxe", Price: 100}}
	reservations := []models.Reservation{{Status: "pending"}}
	checkins := []models.CheckIn{{RoomType: "Deluxe", Status: "checked-in", Date: fixedNow.Truncate(24 * time.Hour)}}

	first := agg.ComputeSummary(rooms, reservations, checkins)
	second := agg.ComputeSummary(rooms, reservations, checkins)

	assert.Equal(t, first, second)
	assert.Len(t, first.ChartLabels, models.ChartDays)
	assert.Len(t, first.ChartData, len(first.ChartLabels))
}

func TestComputeSummary_Empty(t *testing.T) {
	got := newTestAggregator().ComputeSummary(nil, nil, nil)
	assert.Equal(t, int64(0), got.TotalToday)
	assert.Equal(t, 0.0, got.Revenue)
	assert.Len(t, got.ChartData, models.ChartDays)
	for _, v := range got.ChartData {
		assert.Zero(t, v)
	}
}

func TestTotalToday(t *testing.T) {
	today := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)
	reservations := models.ReservationsFromRecords([]models.Record{
		{"status": "CONFIRMED", "created_at": "2025-10-18T00:00:01Z"},
		{"status": "Pending", "created_at": "2025-10-18T10:00:00Z"},
		{"status": "Confirmed", "created_at": "2025-10-17T23:59:59Z"},
		{"status": "Confirmed"},
	})
	assert.Equal(t, int64(1), TotalToday(reservations, today))
}

func TestRevenue(t *testing.T) {
	rooms := models.RoomsFromRecords([]models.Record{
		{"room_name": "Deluxe", "price": "2000.00"},
		{"name": "Suite", "rate": 5000.0},
	})

	t.Run("StatusFilter", func(t *testing.T) {
		checkins := models.CheckInsFromRecords([]models.Record{
			{"room_type": "Deluxe", "status": "Checked-In", "rooms": 1.0},
			{"room_type": "Deluxe", "status": "checked-out", "rooms": 1.0},
			{"room_type": "Deluxe", "status": "reserved", "rooms": 1.0},
			{"room_type": "Deluxe"},
		})
		assert.Equal(t, 4000.0, Revenue(rooms, checkins))
	})

	t.Run("RoomNameFallback", func(t *testing.T) {
		checkins := models.CheckInsFromRecords([]models.Record{
			{"room_type": "Unknown", "room_name": "Suite", "status": "checked-in", "quantity": 2.0},
		})
		assert.Equal(t, 10000.0, Revenue(rooms, checkins))
	})

	t.Run("UnmatchedIsZero", func(t *testing.T) {
		checkins := models.CheckInsFromRecords([]models.Record{
			{"room_type": "Penthouse", "status": "checked-in", "rooms": 3.0},
		})
		assert.Equal(t, 0.0, Revenue(rooms, checkins))
	})

	t.Run("MissingCountDefaultsToOne", func(t *testing.T) {
		checkins := models.CheckInsFromRecords([]models.Record{
			{"room_type": "Suite", "status": "checked-out"},
			{"room_type": "Suite", "status": "checked-out", "rooms": 0.0},
		})
		assert.Equal(t, 10000.0, Revenue(rooms, checkins))
	})
}

func TestAvailableRooms(t *testing.T) {
	rooms := []models.Room{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	checkins := models.CheckInsFromRecords([]models.Record{
		{"status": "checked-in", "rooms": 1.0},
		{"status": "checked-in"},
		{"status": "checked-out", "rooms": 5.0},
	})
	assert.Equal(t, int64(2), AvailableRooms(rooms, checkins))

	overbooked := models.CheckInsFromRecords([]models.Record{{"status": "checked-in", "rooms": 9.0}})
	assert.Equal(t, int64(0), AvailableRooms(rooms, overbooked))
	assert.Equal(t, int64(0), AvailableRooms(nil, nil))
}

func TestPending(t *testing.T) {
	reservations := []models.Reservation{{Status: "Pending"}, {Status: "PENDING"}, {Status: "Confirmed"}, {}}
	assert.Equal(t, int64(2), Pending(reservations))
}

func TestChartSeries(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	checkins := models.CheckInsFromRecords([]models.Record{
		{"status": "checked-in", "check_in": "2025-03-15"},
		{"status": "checked-in", "checkin": "2025-03-15T08:00:00Z"},
		{"status": "checked-in", "check_in": "2025-02-14"},
		{"status": "checked-in", "check_in": "2025-02-13"},
		{"status": "checked-in", "check_in": "2025-03-16"},
		{"status": "checked-out", "check_in": "2025-03-15"},
		{"status": "checked-in", "check_in": "garbage"},
	})

	labels, data := ChartSeries(checkins, today)
	require.Len(t, labels, models.ChartDays)
	require.Len(t, data, models.ChartDays)
	assert.Equal(t, "Feb 14", labels[0])
	assert.Equal(t, int64(1), data[0])
	assert.Equal(t, int64(2), data[models.ChartDays-1])

	var sum int64
	for _, v := range data {
		sum += v
	}
	assert.Equal(t, int64(3), sum)
}

func TestAggregatorTimezone(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	agg := NewAggregator(loc)
	// 20:00 UTC is already the next day in IST.
	agg.Now = func() time.Time { return time.Date(2025, 10, 18, 20, 0, 0, 0, time.UTC) }

	got := agg.ComputeSummary(nil, nil, nil)
	assert.Equal(t, "Oct 19", got.ChartLabels[models.ChartDays-1])
}

func TestFromSources(t *testing.T) {
	agg := newTestAggregator()
	fail := errors.New("boom")

	t.Run("CheckInsFailed", func(t *testing.T) {
		src := Sources{
			Rooms:        Settled{Records: []models.Record{{"room_name": "A", "price": 10.0}, {"room_name": "B"}}},
			Reservations: Settled{Records: []models.Record{{"status": "pending"}}},
			CheckIns:     Settled{Err: fail},
		}
		got, err := agg.FromSources(src)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.AvailableRooms)
		assert.Equal(t, 0.0, got.Revenue)
		assert.Equal(t, int64(1), got.Pending)
		assert.Equal(t, []string{CollectionCheckIns}, src.Failed())
	})

	t.Run("AllFailed", func(t *testing.T) {
		src := Sources{Rooms: Settled{Err: fail}, Reservations: Settled{Err: fail}, CheckIns: Settled{Err: fail}}
		_, err := agg.FromSources(src)
		assert.ErrorIs(t, err, ErrSummaryUnavailable)
	})

	t.Run("AllEmptyIsNotFailure", func(t *testing.T) {
		got, err := agg.FromSources(Sources{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.AvailableRooms)
		assert.Len(t, got.ChartData, models.ChartDays)
	})
}

func TestSettleAll(t *testing.T) {
	var calls atomic.Int32
	ok := func(records ...models.Record) FetchFunc {
		return func(ctx context.Context) ([]models.Record, error) {
			calls.Add(1)
			return records, nil
		}
	}
	failing := func(ctx context.Context) ([]models.Record, error) {
		calls.Add(1)
		return nil, errors.New("unreachable")
	}

	src := SettleAll(context.Background(), ok(models.Record{"room_name": "A"}), failing, ok())

	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, src.Rooms.Records, 1)
	assert.Error(t, src.Reservations.Err)
	assert.NoError(t, src.CheckIns.Err)
	assert.False(t, src.AllFailed())
	assert.Equal(t, []string{CollectionReservations}, src.Failed())
}
