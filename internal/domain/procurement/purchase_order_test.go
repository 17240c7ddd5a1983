package procurement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	po, err := NewPurchaseOrder("t1", "u1", "PO-202401-00001", "Steel Co", []PurchaseOrderLine{
		{Description: "Rebar", Quantity: decimal.NewFromInt(10), UnitCost: decimal.RequireFromString("12.5")},
	})
	require.NoError(t, err)
	return po
}

func TestNewPurchaseOrder(t *testing.T) {
	po := newTestOrder(t)
	assert.Equal(t, "125.00", po.Total.StringFixed(2))
	assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
	assert.NotEmpty(t, po.Lines[0].ID)

	_, err := NewPurchaseOrder("t1", "u1", "PO-1", "Steel", nil)
	assert.Error(t, err)
	_, err = NewPurchaseOrder("t1", "u1", "PO-1", "", []PurchaseOrderLine{{Description: "x", Quantity: decimal.NewFromInt(1)}})
	assert.Error(t, err)
}

func TestPurchaseOrder_Transitions(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		po := newTestOrder(t)
		assert.Error(t, po.Receive())
		require.NoError(t, po.Approve("acct-1"))
		assert.Error(t, po.Approve("acct-1"))
		require.NoError(t, po.Receive())
		assert.True(t, po.Status.IsTerminal())
		assert.Error(t, po.Cancel("late"))
	})

	t.Run("cancel from approved", func(t *testing.T) {
		po := newTestOrder(t)
		require.NoError(t, po.Approve("acct-1"))
		assert.Error(t, po.Cancel(""))
		require.NoError(t, po.Cancel("supplier out of stock"))
		assert.Error(t, po.Receive())
		assert.False(t, po.CanDelete())
	})
}

func TestPurchaseOrder_DraftVisibility(t *testing.T) {
	po := newTestOrder(t)
	assert.True(t, po.IsVisibleTo("u1"))
	assert.False(t, po.IsVisibleTo("u2"))
	require.NoError(t, po.Approve("u9"))
	assert.True(t, po.IsVisibleTo("u2"))
}
