//go:build unit

package cart_test

import (
	"sort"
	"testing"

	"storefront/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddLine(t *testing.T) {
	c := cart.New(uuid.New())
	productID := uuid.New()

	require.NoError(t, c.AddLine(productID, 2))
	require.NoError(t, c.AddLine(productID, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	assert.ErrorIs(t, c.AddLine(productID, 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddLine(productID, -1), cart.ErrInvalidQuantity)
}

func TestCartSetQuantity(t *testing.T) {
	c := cart.New(uuid.New())
	productID := uuid.New()

	assert.ErrorIs(t, c.SetQuantity(productID, 1), cart.ErrLineNotFound)

	require.NoError(t, c.AddLine(productID, 2))
	require.NoError(t, c.SetQuantity(productID, 7))
	assert.Equal(t, 7, c.Lines()[0].Quantity)

	assert.ErrorIs(t, c.SetQuantity(productID, 0), cart.ErrInvalidQuantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	c := cart.New(uuid.New())
	a, b := uuid.New(), uuid.New()

	require.NoError(t, c.AddLine(a, 1))
	require.NoError(t, c.AddLine(b, 1))

	require.NoError(t, c.RemoveLine(a))
	assert.ErrorIs(t, c.RemoveLine(a), cart.ErrLineNotFound)
	assert.Len(t, c.Lines(), 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCartLinesSortedByProductID(t *testing.T) {
	c := cart.New(uuid.New())
	for i := 0; i < 10; i++ {
		require.NoError(t, c.AddLine(uuid.New(), i+1))
	}

	lines := c.Lines()
	assert.True(t, sort.SliceIsSorted(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	}))
}

func TestCartReconstructDropsEmptyLines(t *testing.T) {
	userID := uuid.New()
	kept := uuid.New()
	c := cart.Reconstruct(userID, []cart.Line{
		{ProductID: kept, Quantity: 2},
		{ProductID: uuid.New(), Quantity: 0},
	})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, kept, lines[0].ProductID)
	assert.Equal(t, userID, c.UserID())
}
