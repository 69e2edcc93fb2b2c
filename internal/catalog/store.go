package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const entity = "product"

// Prices go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Draft carries the caller-supplied fields of a product.
type Draft struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	StockQuantity int
	ImageURL      string
}

// Store is the product store. Lookups report absence with ok=false; the
// write methods fail with apperr kinds.
type Store interface {
	Ping(ctx context.Context) error

	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Search(ctx context.Context, keyword string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, d Draft) (Product, error)
	Update(ctx context.Context, id string, d Draft) (Product, error)
	SoftDelete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, quantity int) (Product, error)
}
