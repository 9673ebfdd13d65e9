package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyCategoryName = errors.New("category name must not be empty")

// Category groups products but does not own them: deleting a category leaves
// its products uncategorized.
type Category struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func NewCategory(name string, now time.Time) (*Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyCategoryName
	}

	return &Category{
		id:        uuid.New(),
		name:      trimmed,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructCategory(id uuid.UUID, name string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:        id,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Category) Rename(name string, now time.Time) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyCategoryName
	}
	c.name = trimmed
	c.updatedAt = now
	return nil
}

func (c *Category) ID() uuid.UUID        { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }
