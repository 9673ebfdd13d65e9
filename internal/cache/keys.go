package cache

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Key grammar is "prefix:part:part". The prefix decides the TTL tier, so
// key construction lives here rather than with callers.

func ProductDetailKey(id uuid.UUID) string {
	return "product:detail:" + id.String()
}

func ProductListKey(page int, categoryID *uuid.UUID) string {
	parts := []string{"products", "list", fmt.Sprintf("page_%d", page)}
	if categoryID != nil {
		parts = append(parts, "cat_"+categoryID.String())
	}
	return strings.Join(parts, ":")
}

func CategoryListKey() string {
	return "categories:list"
}

func SearchKey(query string, page int) string {
	if len(query) > 50 {
		query = query[:50]
	}
	return fmt.Sprintf("search:%s:page_%d", query, page)
}

func UserOrdersKey(userID uuid.UUID) string {
	return "user:" + userID.String() + ":orders"
}

func OrderKey(orderID uuid.UUID) string {
	return "order:detail:" + orderID.String()
}

// ProductWritePatterns covers every key that could have observed a product's
// pre-write state: the detail entry, all listings, category listings (product
// counts embed products) and search results.
func ProductWritePatterns(id uuid.UUID) []string {
	return []string{
		ProductDetailKey(id),
		"products:*",
		"categories:*",
		"search:*",
	}
}

// StockPatterns is the narrower set touched by reserve/release: listings and
// search embed stock-derived facets, category listings do not.
func StockPatterns(id uuid.UUID) []string {
	return []string{
		ProductDetailKey(id),
		"products:*",
		"search:*",
	}
}

func CategoryWritePatterns(id uuid.UUID) []string {
	return []string{
		"category:detail:" + id.String(),
		"categories:*",
		"products:*",
		"search:*",
	}
}

func OrderWritePatterns(orderID, userID uuid.UUID) []string {
	return []string{
		OrderKey(orderID),
		UserOrdersKey(userID) + "*",
	}
}
