package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earrings(qty int) Item {
	return Item{ProductID: "p1", Name: "Bubble Tea Earrings", Price: 12.50, Image: "/img/p1.jpg", Quantity: qty}
}

func pendant(qty int) Item {
	return Item{ProductID: "p2", Name: "Amethyst Pendant", Price: 34.99, Quantity: qty}
}

func TestAddItemAppends(t *testing.T) {
	s := Empty().AddItem(earrings(2))

	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.InDelta(t, 25.00, s.Total, 1e-9)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	s := Empty().AddItem(earrings(1)).AddItem(pendant(1)).AddItem(earrings(3))

	require.Len(t, s.Items, 2, "adding an existing product must not create a duplicate line")
	assert.Equal(t, 4, s.Items[0].Quantity)
	assert.InDelta(t, 4*12.50+34.99, s.Total, 1e-9)
}

func TestRemoveItem(t *testing.T) {
	s := Empty().AddItem(earrings(2)).AddItem(pendant(1)).RemoveItem("p1")

	require.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].ProductID)
	assert.InDelta(t, 34.99, s.Total, 1e-9)
}

func TestRemoveUnknownItemIsNoop(t *testing.T) {
	s := Empty().AddItem(earrings(2))
	got := s.RemoveItem("nope")

	assert.Equal(t, s, got)
}

func TestSetQuantityReplaces(t *testing.T) {
	s := Empty().AddItem(earrings(2)).SetQuantity("p1", 5)

	assert.Equal(t, 5, s.Items[0].Quantity)
	assert.InDelta(t, 62.50, s.Total, 1e-9)
}

func TestSetQuantityDoesNotMutateReceiver(t *testing.T) {
	s := Empty().AddItem(earrings(2))
	_ = s.SetQuantity("p1", 9)

	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.InDelta(t, 25.00, s.Total, 1e-9)
}

func TestClear(t *testing.T) {
	s := Empty().AddItem(earrings(2)).AddItem(pendant(3)).Clear()

	assert.Empty(t, s.Items)
	assert.Zero(t, s.Total)
}

func TestCount(t *testing.T) {
	s := Empty().AddItem(earrings(2)).AddItem(pendant(3))
	assert.Equal(t, 5, s.Count())
}

// TestTotalInvariant drives the cart through a long random action sequence
// and checks after every step that the total equals the sum of
// price*quantity over the current items.
func TestTotalInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	catalog := []Item{earrings(1), pendant(1),
		{ProductID: "p3", Name: "Glass Bead Bracelet", Price: 9.95, Quantity: 1},
		{ProductID: "p4", Name: "Opal Ring", Price: 120.00, Quantity: 1},
	}

	s := Empty()
	for i := 0; i < 500; i++ {
		pick := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(4) {
		case 0:
			pick.Quantity = 1 + rng.Intn(4)
			s = s.AddItem(pick)
		case 1:
			s = s.RemoveItem(pick.ProductID)
		case 2:
			s = s.SetQuantity(pick.ProductID, 1+rng.Intn(9))
		case 3:
			if rng.Intn(10) == 0 {
				s = s.Clear()
			}
		}

		want := decimal.Zero
		for _, it := range s.Items {
			want = want.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
			require.GreaterOrEqual(t, it.Quantity, 1)
		}
		wantF, _ := want.Float64()
		require.InDelta(t, wantF, s.Total, 1e-9, "step %d: total drifted from line items", i)
	}
}
