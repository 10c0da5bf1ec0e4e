package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ss-infotech2024/AllCares/internal/domain"
)

// Sort options accepted by the query engine.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortName      = "name"
)

// DefaultMaxPrice is the upper price bound used when a query sets none.
const DefaultMaxPrice = 100000

// Query holds the filter and sort parameters for one evaluation. Queries are
// ephemeral: the engine keeps no state between calls.
type Query struct {
	// SearchTerm matches case-insensitively against name and description.
	// Empty matches everything.
	SearchTerm string

	// SelectedCategories restricts results to the given category IDs.
	// An empty set means no category filter.
	SelectedCategories []string

	// MinPrice and MaxPrice are inclusive bounds. A range with
	// MinPrice > MaxPrice is not an error; it simply matches nothing.
	MinPrice float64
	MaxPrice float64

	// InStockOnly excludes out-of-stock products when set.
	InStockOnly bool

	// SortBy selects the result ordering; unknown values and SortFeatured
	// keep the corpus order.
	SortBy string
}

// DefaultQuery returns the unfiltered query with the widest price range.
func DefaultQuery() Query {
	return Query{
		MaxPrice: DefaultMaxPrice,
		SortBy:   SortFeatured,
	}
}

// Evaluate filters and orders the corpus for the given query. It is a pure
// function of (corpus, query): the corpus is never mutated, the result holds
// references into it, and every call re-derives the view from scratch.
//
// A product survives the filter phase only if it passes every predicate;
// sorting runs after filtering with a stable comparator, so products that
// compare equal keep their corpus order.
func Evaluate(corpus []*domain.Product, q Query) []*domain.Product {
	term := strings.ToLower(q.SearchTerm)

	matched := make([]*domain.Product, 0, len(corpus))
	for _, p := range corpus {
		if !matches(p, q, term) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, q.SortBy)

	return matched
}

// matches checks the filter conjunction for a single product.
func matches(p *domain.Product, q Query, term string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(p.Name), term) &&
		!strings.Contains(strings.ToLower(p.Description), term) {
		return false
	}

	if len(q.SelectedCategories) > 0 {
		found := false
		for _, c := range q.SelectedCategories {
			if p.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if p.Price < q.MinPrice || p.Price > q.MaxPrice {
		return false
	}

	if q.InStockOnly && !p.InStock {
		return false
	}

	return true
}

// sortProducts orders the matched products in place.
func sortProducts(products []*domain.Product, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortName:
		// Collators are not safe for concurrent use, so each evaluation
		// builds its own.
		c := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	default:
		// SortFeatured or unknown: keep corpus order.
	}
}

// ValidSort reports whether s is a recognized sort option.
func ValidSort(s string) bool {
	switch s {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortName:
		return true
	}
	return false
}
