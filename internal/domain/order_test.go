package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, OrderStatus("teleported").Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("Pending").Valid(), "statuses are case sensitive")
}

func TestStatusList(t *testing.T) {
	assert.Equal(t, "pending, processing, shipped, delivered, cancelled", StatusList())
}

func TestCartFindItem(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "prod-1", Quantity: 1},
		{ProductID: "prod-2", Quantity: 2},
	}}

	assert.Equal(t, 1, cart.FindItem("prod-2"))
	assert.Equal(t, -1, cart.FindItem("prod-none"))
	assert.Equal(t, -1, (&Cart{}).FindItem("prod-1"))
}
