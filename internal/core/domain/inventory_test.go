package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullBatch loads 1000 bills of every denomination (total 93000).
func fullBatch() []Bill {
	batch := make([]Bill, 0, len(denominations))
	for _, d := range []Denomination{1, 2, 5, 10, 25, 50} {
		batch = append(batch, Bill{Value: d, Quantity: 1000})
	}
	return batch
}

func newFullInventory(t *testing.T) *Inventory {
	t.Helper()
	inv := NewInventory()
	_, err := inv.Deposit(fullBatch())
	require.NoError(t, err)
	require.Equal(t, int64(93000), inv.Total())
	return inv
}

func TestNewInventory_Empty(t *testing.T) {
	inv := NewInventory()

	assert.Equal(t, int64(0), inv.Total())
	for _, d := range Denominations() {
		n, err := inv.Get(d)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	}
}

func TestInventory_GetInvalidDenomination(t *testing.T) {
	inv := NewInventory()

	_, err := inv.Get(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDenomination)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int64(3), de.Value)
}

func TestInventory_Adjust(t *testing.T) {
	inv := newFullInventory(t)

	require.NoError(t, inv.Adjust(1, -1000))
	n, err := inv.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(92000), inv.Total())

	err = inv.Adjust(20, 1)
	assert.ErrorIs(t, err, ErrInvalidDenomination)
	assert.Equal(t, int64(92000), inv.Total())
}

func TestInventory_Reset(t *testing.T) {
	inv := newFullInventory(t)

	inv.Reset()

	assert.Equal(t, int64(0), inv.Total())
	for _, d := range Denominations() {
		n, err := inv.Get(d)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n, "denomination %d", d)
	}
}

func TestInventory_Snapshot(t *testing.T) {
	inv := NewInventory()
	_, err := inv.Deposit([]Bill{{Value: 50, Quantity: 2}, {Value: 5, Quantity: 1}})
	require.NoError(t, err)

	snap := inv.Snapshot()
	assert.Equal(t, int64(105), snap.Total)
	assert.Len(t, snap.Bills, 6)
	assert.Equal(t, int64(2), snap.Bills[50])
	assert.Equal(t, int64(1), snap.Bills[5])
	assert.Equal(t, int64(0), snap.Bills[1])

	// Snapshot is detached from the live counts.
	snap.Bills[50] = 999
	n, _ := inv.Get(50)
	assert.Equal(t, int64(2), n)
}

func TestInventory_IndependentInstances(t *testing.T) {
	a := NewInventory()
	b := NewInventory()

	_, err := a.Deposit([]Bill{{Value: 10, Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, int64(10), a.Total())
	assert.Equal(t, int64(0), b.Total())
}
