package features

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/domain/product"
)

type cartTestContext struct {
	store *cart.Store
}

func (c *cartTestContext) reset() {
	c.store = cart.NewStore()
}

func (c *cartTestContext) anEmptyCart() error {
	c.reset()
	return nil
}

func (c *cartTestContext) iAddProductPriced(id string, price int) error {
	c.store.AddItem(product.Product{ID: id, Price: price})
	return nil
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	c.store.RemoveItem(id)
	return nil
}

func (c *cartTestContext) iChangeTheQuantityOfProductBy(id string, delta int) error {
	c.store.UpdateQuantity(id, delta)
	return nil
}

func (c *cartTestContext) theCartContainsLines(n int) error {
	if got := c.store.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(id string, qty int) error {
	line, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("product %q is not in the cart", id)
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d for product %q, got %d", qty, id, line.Quantity)
	}
	return nil
}

func (c *cartTestContext) productIsNotInTheCart(id string) error {
	if _, ok := c.store.Get(id); ok {
		return fmt.Errorf("product %q is still in the cart", id)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total int) error {
	if got := c.store.Total(); got != total {
		return fmt.Errorf("expected total %d, got %d", total, got)
	}
	return nil
}

func (c *cartTestContext) theItemCountIs(count int) error {
	if got := c.store.ItemCount(); got != count {
		return fmt.Errorf("expected item count %d, got %d", count, got)
	}
	return nil
}

func (c *cartTestContext) theCartLinesAre(ids string) error {
	var got []string
	for _, item := range c.store.Items() {
		got = append(got, item.Product.ID)
	}
	if joined := strings.Join(got, ","); joined != ids {
		return fmt.Errorf("expected lines %q, got %q", ids, joined)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^I add product "([^"]*)" priced (\d+)$`, tc.iAddProductPriced)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I change the quantity of product "([^"]*)" by (-?\d+)$`, tc.iChangeTheQuantityOfProductBy)

	ctx.Step(`^the cart contains (\d+) lines?$`, tc.theCartContainsLines)
	ctx.Step(`^product "([^"]*)" has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^product "([^"]*)" is not in the cart$`, tc.productIsNotInTheCart)
	ctx.Step(`^the cart total is (\d+)$`, tc.theCartTotalIs)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the cart lines are "([^"]*)"$`, tc.theCartLinesAre)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
