//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/events"
	"storefront/internal/infra"
	"storefront/internal/inventory"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// in-memory fakes for the command ports

type fakeProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProducts) Create(_ context.Context, p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID()] = p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID()]; !ok {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	f.items[p.ID()] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return p, nil
}

type fakeCarts struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]cart.Line
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[uuid.UUID][]cart.Line)}
}

func (f *fakeCarts) Get(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cart.Reconstruct(userID, f.carts[userID]), nil
}

func (f *fakeCarts) Save(_ context.Context, c *cart.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[c.UserID()] = c.Lines()
	return nil
}

func (f *fakeCarts) Clear(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}

type fakeOrders struct {
	mu     sync.Mutex
	seq    int64
	orders map[uuid.UUID]*order.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[uuid.UUID]*order.Order)}
}

func (f *fakeOrders) NextSequence(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID()] = o
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return o, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *order.Order, _ order.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID()] = o
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingPublisher) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

type recordingInvalidator struct {
	mu       sync.Mutex
	patterns []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, patterns ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, patterns...)
}

// ---------------------------------------------------------------------------

type checkoutFixture struct {
	cmds        commands.OrderCommands
	products    *fakeProducts
	carts       *fakeCarts
	orders      *fakeOrders
	ledger      *inventory.MemoryLedger
	publisher   *recordingPublisher
	invalidator *recordingInvalidator
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		products:    newFakeProducts(),
		carts:       newFakeCarts(),
		orders:      newFakeOrders(),
		ledger:      inventory.NewMemoryLedger(inventory.NopInvalidator{}),
		publisher:   &recordingPublisher{},
		invalidator: &recordingInvalidator{},
	}
	f.cmds = commands.NewOrderCommands(
		f.orders, f.carts, f.products, f.ledger,
		f.publisher, f.invalidator,
		clock.NewMockClock(testNow),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *checkoutFixture) addProduct(t *testing.T, name string, priceCents int64, stock int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	p, err := catalog.NewProduct(name, priceCents, stock, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(ctx, p))
	require.NoError(t, f.ledger.SetStock(ctx, p.ID(), stock))
	return p.ID()
}

func (f *checkoutFixture) fillCart(t *testing.T, userID uuid.UUID, lines map[uuid.UUID]int) {
	t.Helper()
	c := cart.New(userID)
	for id, qty := range lines {
		require.NoError(t, c.AddLine(id, qty))
	}
	require.NoError(t, f.carts.Save(context.Background(), c))
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending order and clears cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		keyboard := f.addProduct(t, "Keyboard", 4999, 10)
		mouse := f.addProduct(t, "Mouse", 1999, 5)
		f.fillCart(t, userID, map[uuid.UUID]int{keyboard: 2, mouse: 1})

		view, err := f.cmds.Checkout(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, order.StatusPending, view.Status)
		assert.Equal(t, int64(2*4999+1999), view.TotalCents)
		assert.Equal(t, "ORD-000001", view.Number)

		expectedLines := []queries.OrderLineView{
			{ProductID: keyboard, ProductName: "Keyboard", UnitPrice: 4999, Quantity: 2, SubtotalCents: 9998},
			{ProductID: mouse, ProductName: "Mouse", UnitPrice: 1999, Quantity: 1, SubtotalCents: 1999},
		}
		sort.Slice(expectedLines, func(i, j int) bool {
			return expectedLines[i].ProductID.String() < expectedLines[j].ProductID.String()
		})
		if diff := cmp.Diff(expectedLines, view.Lines); diff != "" {
			t.Errorf("order lines mismatch (-want +got):\n%s", diff)
		}

		stock, _ := f.ledger.Stock(ctx, keyboard)
		assert.Equal(t, 8, stock)
		stock, _ = f.ledger.Stock(ctx, mouse)
		assert.Equal(t, 4, stock)

		c, _ := f.carts.Get(ctx, userID)
		assert.True(t, c.IsEmpty())

		published := f.publisher.all()
		require.Len(t, published, 1)
		assert.Equal(t, events.TypeOrderCreated, published[0].Type)
		assert.Equal(t, userID, published[0].UserID)
		assert.Equal(t, view.TotalCents, published[0].TotalCents)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.cmds.Checkout(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrEmptyCart)
		assert.Empty(t, f.publisher.all())
	})

	t.Run("insufficient stock rolls back earlier reservations", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		plentiful := f.addProduct(t, "Plentiful", 1000, 100)
		scarce := f.addProduct(t, "Scarce", 1000, 1)
		f.fillCart(t, userID, map[uuid.UUID]int{plentiful: 5, scarce: 2})

		_, err := f.cmds.Checkout(ctx, userID)
		assert.ErrorIs(t, err, errs.ErrInsufficientStock)

		stock, _ := f.ledger.Stock(ctx, plentiful)
		assert.Equal(t, 100, stock, "partial reservation must be released")
		stock, _ = f.ledger.Stock(ctx, scarce)
		assert.Equal(t, 1, stock)

		c, _ := f.carts.Get(ctx, userID)
		assert.False(t, c.IsEmpty(), "failed checkout must keep the cart")
		assert.Empty(t, f.publisher.all())
	})

	t.Run("product removed since added to cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		productID := f.addProduct(t, "Ghost", 1000, 5)
		f.fillCart(t, userID, map[uuid.UUID]int{productID: 1})
		require.NoError(t, f.products.Delete(ctx, productID))

		_, err := f.cmds.Checkout(ctx, userID)
		assert.ErrorIs(t, err, errs.ErrCartLineMissing)
	})

	t.Run("concurrent checkouts never oversell", func(t *testing.T) {
		f := newCheckoutFixture(t)
		productID := f.addProduct(t, "Last one", 9999, 1)

		const buyers = 8
		userIDs := make([]uuid.UUID, buyers)
		for i := range userIDs {
			userIDs[i] = uuid.New()
			f.fillCart(t, userIDs[i], map[uuid.UUID]int{productID: 1})
		}

		var wg sync.WaitGroup
		errsCh := make(chan error, buyers)
		for _, userID := range userIDs {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := f.cmds.Checkout(ctx, id)
				errsCh <- err
			}(userID)
		}
		wg.Wait()
		close(errsCh)

		won, lost := 0, 0
		for err := range errsCh {
			if err == nil {
				won++
			} else {
				require.ErrorIs(t, err, errs.ErrInsufficientStock)
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, buyers-1, lost)

		stock, _ := f.ledger.Stock(ctx, productID)
		assert.Equal(t, 0, stock)
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	checkout := func(t *testing.T, f *checkoutFixture, stock int) (uuid.UUID, uuid.UUID, uuid.UUID) {
		t.Helper()
		userID := uuid.New()
		productID := f.addProduct(t, "Widget", 1500, stock)
		f.fillCart(t, userID, map[uuid.UUID]int{productID: 2})
		view, err := f.cmds.Checkout(ctx, userID)
		require.NoError(t, err)
		return view.ID, userID, productID
	}

	t.Run("ship then deliver", func(t *testing.T) {
		f := newCheckoutFixture(t)
		orderID, userID, _ := checkout(t, f, 10)

		view, err := f.cmds.Transition(ctx, orderID, order.StatusShipped, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, view.Status)
		require.NotNil(t, view.ShippedAt)

		view, err = f.cmds.Transition(ctx, orderID, order.StatusDelivered, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, view.Status)

		published := f.publisher.all()
		require.Len(t, published, 3) // created + two updates
		assert.Equal(t, events.TypeOrderUpdated, published[1].Type)
		assert.Equal(t, order.StatusPending, published[1].OldStatus)
		assert.Equal(t, order.StatusShipped, published[1].NewStatus)
		assert.Equal(t, userID, published[1].UserID)
	})

	t.Run("cancel returns reserved stock", func(t *testing.T) {
		f := newCheckoutFixture(t)
		orderID, _, productID := checkout(t, f, 10)

		stock, _ := f.ledger.Stock(ctx, productID)
		require.Equal(t, 8, stock)

		view, err := f.cmds.Transition(ctx, orderID, order.StatusCancelled, "customer-1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, view.Status)

		stock, _ = f.ledger.Stock(ctx, productID)
		assert.Equal(t, 10, stock)

		published := f.publisher.all()
		last := published[len(published)-1]
		assert.Equal(t, events.TypeOrderUpdated, last.Type)
		assert.Equal(t, order.StatusCancelled, last.NewStatus)
		assert.Contains(t, f.invalidator.patterns, cache.OrderKey(orderID))
	})

	t.Run("shipping does not touch stock", func(t *testing.T) {
		f := newCheckoutFixture(t)
		orderID, _, productID := checkout(t, f, 10)

		_, err := f.cmds.Transition(ctx, orderID, order.StatusShipped, "admin-1")
		require.NoError(t, err)

		stock, _ := f.ledger.Stock(ctx, productID)
		assert.Equal(t, 8, stock)
	})

	t.Run("invalid transitions are rejected without side effects", func(t *testing.T) {
		f := newCheckoutFixture(t)
		orderID, _, productID := checkout(t, f, 10)

		_, err := f.cmds.Transition(ctx, orderID, order.StatusDelivered, "admin-1")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)

		_, err = f.cmds.Transition(ctx, orderID, order.StatusShipped, "admin-1")
		require.NoError(t, err)
		_, err = f.cmds.Transition(ctx, orderID, order.StatusCancelled, "customer-1")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)

		stock, _ := f.ledger.Stock(ctx, productID)
		assert.Equal(t, 8, stock, "rejected cancellation must not release stock")
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.cmds.Transition(ctx, uuid.New(), order.StatusShipped, "admin-1")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}
