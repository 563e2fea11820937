package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
)

// CatalogProduct is the catalog's view of a purchasable product, resolved at
// purchase time. Prices are producer base prices; the group-buy pricing is
// layered on top by the pricing calculator.
type CatalogProduct struct {
	ID            kernel.UUID
	LotID         *kernel.UUID
	Name          string
	UnitWeight    kernel.Kilograms
	BaseUnitPrice kernel.Cents

	// Available reports whether the product can still be purchased.
	Available bool
}

// CatalogClient resolves products against the external product catalog.
type CatalogClient interface {
	// GetProduct fetches a product, optionally scoped to a lot.
	// Returns an ObjectNotFoundError for unknown products and an
	// ExternalProviderError when the catalog cannot be reached.
	GetProduct(ctx context.Context, productID kernel.UUID, lotID *kernel.UUID) (CatalogProduct, error)
}
