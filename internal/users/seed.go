package users

import (
	"context"
	"fmt"
)

var sampleUsers = []Draft{
	{Username: "admin", Email: "admin@ecommerce.com", Password: "admin123", FirstName: "Admin", LastName: "User", Role: RoleAdmin},
	{Username: "john_doe", Email: "john@example.com", Password: "password123", FirstName: "John", LastName: "Doe"},
	{Username: "jane_smith", Email: "jane@example.com", Password: "password123", FirstName: "Jane", LastName: "Smith"},
}

func Seed(ctx context.Context, s Store) error {
	for _, d := range sampleUsers {
		if _, err := s.Create(ctx, d); err != nil {
			return fmt.Errorf("seed user %q: %w", d.Username, err)
		}
	}
	return nil
}
