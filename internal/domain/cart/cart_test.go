package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

func testProduct(id uint, price int64) product.Product {
	return product.Product{
		ID:     id,
		Name:   "Product",
		Price:  decimal.NewFromInt(price),
		Colors: []string{"red", "blue"},
	}
}

func TestAddItemMergesSameProductAndColor(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)

	require.NoError(t, c.AddItem(p, 1, ""))
	require.NoError(t, c.AddItem(p, 2, ""))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItemSeparatesColors(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)

	require.NoError(t, c.AddItem(p, 1, "red"))
	require.NoError(t, c.AddItem(p, 1, "blue"))
	require.NoError(t, c.AddItem(p, 1, "red"))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "blue", c.Items[1].SelectedColor)
	assert.Equal(t, 3, c.ItemCount())
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)

	assert.ErrorIs(t, c.AddItem(p, 0, ""), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(p, -2, ""), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(p, 1, "green"), ErrInvalidColor)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	c := New("s1", time.Now())
	require.NoError(t, c.AddItem(testProduct(1, 100), 1, ""))
	require.NoError(t, c.AddItem(testProduct(2, 50), 1, ""))

	require.NoError(t, c.UpdateQuantity(1, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, c.UpdateQuantity(1, 0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].Product.ID)

	assert.ErrorIs(t, c.UpdateQuantity(99, 1), ErrItemNotFound)
}

func TestUpdateQuantityMatchesFirstLineOnly(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)
	require.NoError(t, c.AddItem(p, 1, "red"))
	require.NoError(t, c.AddItem(p, 1, "blue"))

	require.NoError(t, c.UpdateQuantity(1, 4))

	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestRemoveItemRemovesAllColors(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)
	require.NoError(t, c.AddItem(p, 1, "red"))
	require.NoError(t, c.AddItem(testProduct(2, 10), 1, ""))
	require.NoError(t, c.AddItem(p, 1, "blue"))

	require.NoError(t, c.RemoveItem(1))

	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].Product.ID)
	assert.ErrorIs(t, c.RemoveItem(1), ErrItemNotFound)
}

func TestToggle(t *testing.T) {
	c := New("s1", time.Now())
	assert.True(t, c.Toggle())
	assert.False(t, c.Toggle())
}

func TestTotalAppliesDiscountPromotion(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)
	p.Promotion = &promotion.Promotion{
		Type:       promotion.TypeDiscount,
		TotalPrice: decimal.NewNullDecimal(decimal.NewFromInt(70)),
	}
	require.NoError(t, c.AddItem(p, 2, ""))

	assert.True(t, c.Total().Equal(decimal.NewFromInt(140)), "got %s", c.Total())
}

func TestTotalsFlagsQuantityPromotions(t *testing.T) {
	c := New("s1", time.Now())
	p := testProduct(1, 100)
	p.Promotion = &promotion.Promotion{Type: promotion.TypeTwoForOne}
	require.NoError(t, c.AddItem(p, 2, ""))
	require.NoError(t, c.AddItem(testProduct(2, 25), 1, ""))

	totals := c.Totals()

	assert.True(t, totals.Total.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, 2, totals.LineCount)
	assert.Equal(t, 3, totals.ItemCount)
	require.Len(t, totals.UnpricedPromotions, 1)
	assert.Equal(t, promotion.TypeTwoForOne, totals.UnpricedPromotions[0].Type)
	assert.Equal(t, "2x1", totals.UnpricedPromotions[0].Label)
}

func TestClearAndLines(t *testing.T) {
	c := New("s1", time.Now())
	require.NoError(t, c.AddItem(testProduct(1, 100), 1, ""))

	lines := c.Lines()
	lines[0].Quantity = 50
	assert.Equal(t, 1, c.Items[0].Quantity)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}
