package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyProductName   = errors.New("product name must not be empty")
	ErrProductNameTooLong = errors.New("product name too long")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrNegativeStock      = errors.New("stock cannot be negative")
)

const MaxProductNameLength = 200

// Product is a catalog entry. The stock field is a snapshot of the ledger's
// counter: reads come through here, but all mutations of stock go through
// the inventory ledger, which is what enforces stock >= 0.
type Product struct {
	id         uuid.UUID
	name       string
	priceCents int64
	stock      int
	categoryID *uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
}

func NewProduct(name string, priceCents int64, stock int, categoryID *uuid.UUID, now time.Time) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	return &Product{
		id:         uuid.New(),
		name:       strings.TrimSpace(name),
		priceCents: priceCents,
		stock:      stock,
		categoryID: categoryID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructProduct(
	id uuid.UUID,
	name string,
	priceCents int64,
	stock int,
	categoryID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:         id,
		name:       name,
		priceCents: priceCents,
		stock:      stock,
		categoryID: categoryID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (p *Product) Rename(name string, now time.Time) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.name = strings.TrimSpace(name)
	p.updatedAt = now
	return nil
}

func (p *Product) ChangePrice(priceCents int64, now time.Time) error {
	if priceCents < 0 {
		return ErrNegativePrice
	}
	p.priceCents = priceCents
	p.updatedAt = now
	return nil
}

func (p *Product) AssignCategory(categoryID *uuid.UUID, now time.Time) {
	p.categoryID = categoryID
	p.updatedAt = now
}

func (p *Product) InStock() bool {
	return p.stock > 0
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) PriceCents() int64      { return p.priceCents }
func (p *Product) Stock() int             { return p.stock }
func (p *Product) CategoryID() *uuid.UUID { return p.categoryID }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyProductName
	}
	if len(trimmed) > MaxProductNameLength {
		return ErrProductNameTooLong
	}
	return nil
}
