package geo

import (
	"context"
	"slices"
	"strings"

	"go-resolver-cache/internal/models"
)

// Ladder is the geo resolver the adapter drives
type Ladder interface {
	Resolve(ctx context.Context, id string, query models.GeoQuery) models.Result[[]models.Location]
}

// History serves a product's supply-chain location history
type History struct {
	ladder Ladder
}

// NewHistory creates the geo-history adapter
func NewHistory(ladder Ladder) *History {
	return &History{ladder: ladder}
}

// Locate returns the location history of productID. origin is the declared place
// of production, used when no tracked history can be fetched.
func (h *History) Locate(ctx context.Context, productID, origin string) models.Result[[]models.Location] {
	query := models.GeoQuery{
		ProductID: strings.TrimSpace(productID),
		Origin:    strings.TrimSpace(origin),
	}
	result := h.ladder.Resolve(ctx, query.ProductID, query)
	// coalesced callers and the mock table share one backing array
	result.Value = slices.Clone(result.Value)
	if result.Value == nil {
		result.Value = []models.Location{}
	}
	return result
}
