package narrative

import (
	"context"
	"strings"

	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
)

// Ladder is the narrative resolver the adapter drives
type Ladder interface {
	Resolve(ctx context.Context, id string, req models.NarrativeRequest) models.Result[string]
}

// Generator produces crop narratives, cached per distinct request
type Generator struct {
	ladder     Ladder
	keyBuilder interfaces.KeyBuilder
}

// NewGenerator creates the narrative adapter
func NewGenerator(ladder Ladder, keyBuilder interfaces.KeyBuilder) *Generator {
	return &Generator{ladder: ladder, keyBuilder: keyBuilder}
}

// Generate returns a narrative for req. Requests that differ only in case or
// surrounding whitespace share a cache entry.
func (g *Generator) Generate(ctx context.Context, req models.NarrativeRequest) models.Result[string] {
	req = models.NarrativeRequest{
		Crop:   strings.TrimSpace(req.Crop),
		Region: strings.TrimSpace(req.Region),
		Prompt: strings.TrimSpace(req.Prompt),
	}
	return g.ladder.Resolve(ctx, g.ID(req), req)
}

// ID is the cache id of a request: md5(crop|region|prompt)
func (g *Generator) ID(req models.NarrativeRequest) string {
	return g.keyBuilder.Hash(req.Crop, req.Region, req.Prompt)
}

// MockKey keys the mock table by lower-cased crop
func MockKey(req models.NarrativeRequest) string {
	return strings.ToLower(strings.TrimSpace(req.Crop))
}
