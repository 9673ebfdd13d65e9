package cart

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one (product, quantity) pair. A user holds at most one line per
// product; adding the same product again merges quantities.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart is keyed by the owning user and lives until checkout or explicit
// removal of its lines.
type Cart struct {
	userID uuid.UUID
	lines  map[uuid.UUID]int
}

func New(userID uuid.UUID) *Cart {
	return &Cart{
		userID: userID,
		lines:  make(map[uuid.UUID]int),
	}
}

func Reconstruct(userID uuid.UUID, lines []Line) *Cart {
	c := New(userID)
	for _, l := range lines {
		if l.Quantity > 0 {
			c.lines[l.ProductID] = l.Quantity
		}
	}
	return c
}

func (c *Cart) AddLine(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.lines[productID] += qty
	return nil
}

func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if _, ok := c.lines[productID]; !ok {
		return ErrLineNotFound
	}
	c.lines[productID] = qty
	return nil
}

func (c *Cart) RemoveLine(productID uuid.UUID) error {
	if _, ok := c.lines[productID]; !ok {
		return ErrLineNotFound
	}
	delete(c.lines, productID)
	return nil
}

func (c *Cart) Clear() {
	c.lines = make(map[uuid.UUID]int)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) UserID() uuid.UUID {
	return c.userID
}

// Lines returns the cart content sorted by product ID. Checkout relies on
// this ordering to reserve stock in a stable order across concurrent carts.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for id, qty := range c.lines {
		out = append(out, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}
