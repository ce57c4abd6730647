package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderCompleted, true},
		{OrderPending, OrderCancelled, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderPending, OrderCompleted, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderConfirmed, OrderPending, false},
		{OrderCompleted, OrderConfirmed, false},
		{OrderPending, OrderPending, false},
		{OrderPending, OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestComplaintStatusOrdering(t *testing.T) {
	assert.True(t, ComplaintPending.Valid())
	assert.False(t, ComplaintStatus("closed").Valid())

	assert.True(t, ComplaintVerified.IsBackwardsFrom(ComplaintResolved))
	assert.True(t, ComplaintPending.IsBackwardsFrom(ComplaintVerified))
	assert.False(t, ComplaintResolved.IsBackwardsFrom(ComplaintPending))
	assert.False(t, ComplaintVerified.IsBackwardsFrom(ComplaintVerified))
}

func TestOrderHasSeller(t *testing.T) {
	o := Order{Items: []OrderItem{{SellerID: 3}, {SellerID: 7}}}
	assert.True(t, o.HasSeller(7))
	assert.False(t, o.HasSeller(4))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleBusiness.Valid())
	assert.False(t, Role("superuser").Valid())
}
