package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var sampleProducts = []Draft{
	{
		Name:          "Laptop Pro 15",
		Description:   "High-performance laptop with 16GB RAM and 512GB SSD",
		Price:         decimal.RequireFromString("999.99"),
		Category:      "Electronics",
		StockQuantity: 50,
		ImageURL:      "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=300",
	},
	{
		Name:          "Smartphone X",
		Description:   "Latest smartphone with 5G and 128GB storage",
		Price:         decimal.RequireFromString("699.99"),
		Category:      "Electronics",
		StockQuantity: 100,
		ImageURL:      "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=300",
	},
	{
		Name:          "Wireless Headphones",
		Description:   "Noise-cancelling Bluetooth headphones",
		Price:         decimal.RequireFromString("199.99"),
		Category:      "Electronics",
		StockQuantity: 75,
		ImageURL:      "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300",
	},
	{
		Name:          "Cotton T-Shirt",
		Description:   "Comfortable 100% cotton t-shirt",
		Price:         decimal.RequireFromString("29.99"),
		Category:      "Clothing",
		StockQuantity: 200,
		ImageURL:      "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=300",
	},
	{
		Name:          "Denim Jeans",
		Description:   "Classic fit denim jeans",
		Price:         decimal.RequireFromString("79.99"),
		Category:      "Clothing",
		StockQuantity: 150,
		ImageURL:      "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?w=300",
	},
	{
		Name:          "Java Programming Guide",
		Description:   "Comprehensive guide to Java programming",
		Price:         decimal.RequireFromString("49.99"),
		Category:      "Books",
		StockQuantity: 80,
		ImageURL:      "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=300",
	},
	{
		Name:          "Mystery Novel",
		Description:   "Bestselling mystery thriller novel",
		Price:         decimal.RequireFromString("24.99"),
		Category:      "Books",
		StockQuantity: 120,
		ImageURL:      "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=300",
	},
	{
		Name:          "Smart Watch",
		Description:   "Fitness tracking smartwatch with heart rate monitor",
		Price:         decimal.RequireFromString("249.99"),
		Category:      "Electronics",
		StockQuantity: 60,
		ImageURL:      "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300",
	},
}

func Seed(ctx context.Context, s Store) error {
	for _, d := range sampleProducts {
		if _, err := s.Create(ctx, d); err != nil {
			return fmt.Errorf("seed product %q: %w", d.Name, err)
		}
	}
	return nil
}
