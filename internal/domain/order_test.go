package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{StatusPlaced, StatusUpdated, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusUpdated, StatusUpdated, true},
		{StatusUpdated, StatusCancelled, true},
		{StatusPlaced, StatusPlaced, false},
		{StatusUpdated, StatusPlaced, false},
		{StatusCancelled, StatusUpdated, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusPlaced, false},
		{OrderStatus("Shipped"), StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("placed").Valid())
}

func TestNewOrder_SnapshotsShipping(t *testing.T) {
	customer := &User{ID: 3, UserID: "alice", City: "Pune", State: "Maharashtra", Pincode: "411001"}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	o := NewOrder(customer, 9, 2, now)
	customer.City = "Mumbai"

	assert.Equal(t, uint64(3), o.UserID)
	assert.Equal(t, uint64(9), o.ProductID)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, "Pune", o.Shipping.City)
	assert.Equal(t, now, o.CreatedAt)
	assert.True(t, o.OwnedBy(3))
	assert.False(t, o.OwnedBy(4))
}

func TestOrder_ChangeQuantity(t *testing.T) {
	tests := []struct {
		name      string
		status    OrderStatus
		from, to  int
		wantDelta int
		wantErr   error
	}{
		{name: "increase", status: StatusPlaced, from: 4, to: 6, wantDelta: 2},
		{name: "decrease", status: StatusUpdated, from: 6, to: 1, wantDelta: -5},
		{name: "unchanged", status: StatusUpdated, from: 3, to: 3, wantDelta: 0},
		{name: "zero", status: StatusPlaced, from: 3, to: 0, wantErr: ErrInvalidQuantity},
		{name: "cancelled", status: StatusCancelled, from: 3, to: 5, wantErr: ErrAlreadyCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Quantity: tt.from, Status: tt.status}
			delta, err := o.ChangeQuantity(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, o.Quantity, "order is left untouched")
				assert.Equal(t, tt.status, o.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDelta, delta)
			assert.Equal(t, tt.to, o.Quantity)
			assert.Equal(t, StatusUpdated, o.Status)
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	o := &Order{Quantity: 6, Status: StatusUpdated}
	restored, err := o.Cancel()
	require.NoError(t, err)
	assert.Equal(t, 6, restored)
	assert.Equal(t, StatusCancelled, o.Status)

	restored, err = o.Cancel()
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Zero(t, restored)
}

func TestProduct_Covers(t *testing.T) {
	p := &Product{Stock: 3}
	assert.True(t, p.Covers(3))
	assert.False(t, p.Covers(4))
	assert.True(t, p.Available())
	assert.False(t, (&Product{}).Available())
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"admin": RoleAdmin, "CUSTOMER": RoleCustomer, " Customer ": RoleCustomer} {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "pharmacist", "a"} {
		_, ok := ParseRole(in)
		assert.False(t, ok, in)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	stockErr := fmt.Errorf("place: %w", &InsufficientStockError{ProductID: 1, Requested: 10, Available: 6})
	assert.ErrorIs(t, stockErr, ErrInsufficientStock)
	assert.True(t, IsBusinessError(stockErr))
	var typed *InsufficientStockError
	require.ErrorAs(t, stockErr, &typed)
	assert.Equal(t, 6, typed.Available)
	assert.Contains(t, stockErr.Error(), "only 6 items in stock")

	assert.ErrorIs(t, ErrOrderNotOwned, ErrUnauthorized)
	assert.ErrorIs(t, ErrProductNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAlreadyCancelled, ErrConflict)
	assert.ErrorIs(t, ErrInvalidQuantity, ErrInvalidInput)

	cause := errors.New("driver: bad connection")
	wrapped := Storage("update order", cause)
	assert.ErrorIs(t, wrapped, ErrStorage)
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, IsBusinessError(wrapped))
	assert.Equal(t, "update order: driver: bad connection", wrapped.Error())

	assert.Same(t, ErrOrderNotFound, Storage("x", ErrOrderNotFound))
	assert.Equal(t, wrapped, Storage("again", wrapped))
	assert.NoError(t, Storage("x", nil))
}
