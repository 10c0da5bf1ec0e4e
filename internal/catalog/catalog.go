package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ss-infotech2024/AllCares/internal/domain"
)

//go:embed data/products.json data/categories.json
var dataFS embed.FS

// Catalog holds the static product corpus and its categories. It is loaded
// once at startup and read-only afterwards, so concurrent reads from request
// handlers need no locking.
type Catalog struct {
	products   []*domain.Product
	categories []domain.Category
	byID       map[string]*domain.Product
}

// Load parses the embedded corpus.
func Load() (*Catalog, error) {
	productsRaw, err := dataFS.ReadFile("data/products.json")
	if err != nil {
		return nil, fmt.Errorf("read products data: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(productsRaw, &products); err != nil {
		return nil, fmt.Errorf("parse products data: %w", err)
	}

	categoriesRaw, err := dataFS.ReadFile("data/categories.json")
	if err != nil {
		return nil, fmt.Errorf("read categories data: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(categoriesRaw, &categories); err != nil {
		return nil, fmt.Errorf("parse categories data: %w", err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q in corpus", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{
		products:   products,
		categories: categories,
		byID:       byID,
	}, nil
}

// Products returns the corpus in its natural ("featured") order.
func (c *Catalog) Products() []*domain.Product {
	return c.products
}

// Categories returns the category records in display order.
func (c *Catalog) Categories() []domain.Category {
	return c.categories
}

// Get returns the product with the given ID, or false.
func (c *Catalog) Get(id string) (*domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products in the corpus.
func (c *Catalog) Len() int {
	return len(c.products)
}
