package domain

import (
	"fmt"
	"strings"
)

// Category is the collection a record was exported from.
type Category string

const (
	CategoryBookmark Category = "bookmark"
	CategoryLike     Category = "like"
	CategoryTweet    Category = "tweet"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryBookmark, CategoryLike, CategoryTweet}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryBookmark, CategoryLike, CategoryTweet:
		return true
	}
	return false
}

// ParseCategory parses a category name, accepting plural forms ("likes").
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ParseCategoryFilter is ParseCategory for optional filters: "" and "all"
// select every category and yield the empty Category.
func ParseCategoryFilter(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", nil
	}
	return ParseCategory(s)
}
