package projects

import (
	"testing"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestItem(t *testing.T) *BOQItem {
	item, err := NewBOQItem("t1", "u1", "prj-1", "1.1", "Excavation", "m3", d("120"), d("15.50"))
	require.NoError(t, err)
	return item
}

func TestNewBOQItem(t *testing.T) {
	item := newTestItem(t)
	assert.Equal(t, "PRJ-1", item.ProjectCode)
	assert.Equal(t, "1860.00", item.Amount.StringFixed(2))
	assert.True(t, item.Progress.IsZero())

	_, err := NewBOQItem("t1", "u1", "", "1.1", "x", "m", d("1"), d("1"))
	assert.Error(t, err)
	_, err = NewBOQItem("t1", "u1", "P", "1.1", "x", "m", d("0"), d("1"))
	assert.Error(t, err)
	_, err = NewBOQItem("t1", "u1", "P", "1.1", "x", "m", d("1"), d("-1"))
	assert.Error(t, err)
}

func TestBOQItem_ProgressCappedAt100(t *testing.T) {
	t.Run("set above 100 is capped", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.SetProgress(d("150")))
		assert.True(t, item.Progress.Equal(d("100")))
		assert.True(t, item.IsComplete())
		assert.NotNil(t, item.CompletedAt)
	})

	t.Run("negative is rejected", func(t *testing.T) {
		item := newTestItem(t)
		err := item.SetProgress(d("-1"))
		require.Error(t, err)
		assert.True(t, item.Progress.IsZero())
	})

	t.Run("increments accumulate and cap", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.AddProgress(d("40")))
		require.NoError(t, item.AddProgress(d("40")))
		assert.True(t, item.Progress.Equal(d("80")))
		assert.False(t, item.IsComplete())

		require.NoError(t, item.AddProgress(d("35")))
		assert.True(t, item.Progress.Equal(d("100")))

		err := item.AddProgress(d("1"))
		assert.Error(t, err)
		assert.True(t, item.Progress.Equal(d("100")))
	})

	t.Run("non-positive increment is rejected", func(t *testing.T) {
		item := newTestItem(t)
		assert.Error(t, item.AddProgress(d("0")))
		assert.Error(t, item.AddProgress(d("-5")))
	})

	t.Run("completion event fires once", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.SetProgress(d("100")))
		require.NoError(t, item.SetProgress(d("120")))
		require.Len(t, item.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeBOQItemCompleted, item.GetDomainEvents()[0].EventType())
	})

	t.Run("completed item cannot be reopened", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.SetProgress(d("100")))
		completedAt := item.CompletedAt
		require.NotNil(t, completedAt)

		err := item.SetProgress(d("99.99"))
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
		assert.True(t, item.Progress.Equal(d("100")))
		assert.Equal(t, completedAt, item.CompletedAt)

		assert.Error(t, item.UpdateDetails("Excavation", "m3", d("500"), d("99")))
		require.NoError(t, item.SetProgress(d("100")))
		assert.Len(t, item.GetDomainEvents(), 1)
	})
}

func TestBOQItem_EarnedValue(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.SetProgress(d("25")))
	assert.Equal(t, "465.00", item.EarnedValue().StringFixed(2))
}

func TestBOQItem_UpdateDetails(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.UpdateDetails("Excavation, rock", "m3", d("100"), d("20")))
	assert.Equal(t, "2000.00", item.Amount.StringFixed(2))

	require.NoError(t, item.SetProgress(d("100")))
	err := item.UpdateDetails("Excavation", "m3", d("110"), d("20"))
	assert.Error(t, err)
	require.NoError(t, item.UpdateDetails("Excavation (final)", "m3", d("100"), d("20")))
}
