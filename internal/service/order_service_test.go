package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/models"
	"staybook/internal/order"
	"staybook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var menuRecords = []models.Record{
	{"id": 1.0, "name": "Butter Naan", "category": "bread", "price": "100.00"},
	{"id": 2.0, "name": "Lassi", "category": "drinks", "price": 50.0},
	{"id": 3.0, "name": "Paneer Tikka", "category": "veg", "price": 220.0},
}

type failingCarts struct {
	*repository.MemoryCartRepository
}

func (failingCarts) ClearLines(ctx context.Context, sessionID string) error {
	return errors.New("clear failed")
}

func TestOrderService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()

	newService := func(bus *mockEventBus) *OrderService {
		source := new(mockSource)
		source.On("ListFood", mock.Anything).Return(menuRecords, nil)
		var publisher domain.EventPublisher
		if bus != nil {
			publisher = bus
		}
		return NewOrderService(source, repository.NewMemoryCartRepository(time.Hour), publisher, "₹", "+919876543210", &logger)
	}

	t.Run("Menu", func(t *testing.T) {
		svc := newService(nil)

		all, err := svc.Menu(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		drinks, err := svc.Menu(ctx, models.CategoryDrinks)
		require.NoError(t, err)
		require.Len(t, drinks, 1)
		assert.Equal(t, "Lassi", drinks[0].Name)

		_, err = svc.Menu(ctx, "pizza")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("AddAndTotal", func(t *testing.T) {
		svc := newService(nil)
		session := svc.NewSession()

		_, err := svc.AddItem(ctx, session, 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, session, 1)
		require.NoError(t, err)
		lines, err := svc.AddItem(ctx, session, 2)
		require.NoError(t, err)

		require.Len(t, lines, 2)
		assert.Equal(t, int64(1), lines[0].Item.ID)
		assert.Equal(t, int64(2), lines[0].Quantity)
		assert.Equal(t, int64(2), lines[1].Item.ID)
		assert.Equal(t, int64(1), lines[1].Quantity)
		assert.Equal(t, 250.0, order.Total(lines))

		cart, err := svc.Cart(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, lines, cart)
	})

	t.Run("UnknownFood", func(t *testing.T) {
		svc := newService(nil)
		_, err := svc.AddItem(ctx, svc.NewSession(), 99)
		assert.ErrorIs(t, err, ErrFoodNotFound)
	})

	t.Run("InvalidSession", func(t *testing.T) {
		svc := newService(nil)
		_, err := svc.Cart(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidSession)
		_, err = svc.Confirm(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("EmptyCartForNewSession", func(t *testing.T) {
		svc := newService(nil)
		cart, err := svc.Cart(ctx, svc.NewSession())
		require.NoError(t, err)
		assert.NotNil(t, cart)
		assert.Empty(t, cart)
	})

	t.Run("ConfirmEmpty", func(t *testing.T) {
		bus := new(mockEventBus)
		svc := newService(bus)

		res, err := svc.Confirm(ctx, svc.NewSession())
		assert.ErrorIs(t, err, order.ErrEmptyCart)
		assert.Nil(t, res)
		bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("Confirm", func(t *testing.T) {
		bus := new(mockEventBus)
		svc := newService(bus)
		session := svc.NewSession()
		bus.On("PublishJSON", events.EventOrderConfirmed, mock.MatchedBy(func(p events.OrderConfirmedPayload) bool {
			return p.SessionID == session && p.Items == 3 && p.Total == 250
		})).Return(nil).Once()

		_, _ = svc.AddItem(ctx, session, 1)
		_, _ = svc.AddItem(ctx, session, 1)
		_, _ = svc.AddItem(ctx, session, 2)

		res, err := svc.Confirm(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, 250.0, res.Total)
		assert.Contains(t, res.Message, "• Butter Naan × 2 – ₹200")
		assert.Contains(t, res.Message, "*Total Amount:* ₹250")
		assert.True(t, strings.HasPrefix(res.Link, "https://wa.me/919876543210?text="))

		cart, err := svc.Cart(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cart)

		_, err = svc.Confirm(ctx, session)
		assert.ErrorIs(t, err, order.ErrEmptyCart)
		bus.AssertExpectations(t)
	})

	t.Run("ConfirmClearFailure", func(t *testing.T) {
		source := new(mockSource)
		source.On("ListFood", mock.Anything).Return(menuRecords, nil)
		carts := failingCarts{repository.NewMemoryCartRepository(time.Hour)}
		svc := NewOrderService(source, carts, nil, "", "", &logger)
		session := svc.NewSession()

		_, err := svc.AddItem(ctx, session, 3)
		require.NoError(t, err)

		_, err = svc.Confirm(ctx, session)
		assert.Error(t, err)

		cart, _ := svc.Cart(ctx, session)
		assert.Len(t, cart, 1)
	})

	t.Run("ConcurrentAdds", func(t *testing.T) {
		svc := newService(nil)
		session := svc.NewSession()

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.AddItem(ctx, session, 2)
			}()
		}
		wg.Wait()

		cart, err := svc.Cart(ctx, session)
		require.NoError(t, err)
		require.Len(t, cart, 1)
		assert.Equal(t, int64(20), cart[0].Quantity)
	})
}
