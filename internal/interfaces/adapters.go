package interfaces

import (
	"context"

	"go-resolver-cache/internal/models"
)

//go:generate mockgen -package=mock -source=adapters.go -destination=mock/adapters.go

// PriceQuoter quotes asset pairs
type PriceQuoter interface {
	Quote(ctx context.Context, base, quote string) models.Result[float64]
	// Precision is the number of decimals prices are presented with
	Precision() int
}

// GeoLocator serves product location histories
type GeoLocator interface {
	Locate(ctx context.Context, productID, origin string) models.Result[[]models.Location]
}

// NarrativeGenerator writes crop narratives
type NarrativeGenerator interface {
	Generate(ctx context.Context, req models.NarrativeRequest) models.Result[string]
}
