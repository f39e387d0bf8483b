package interfaces

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes lookups into deterministic namespaced cache keys
type KeyBuilder interface {
	// Build returns "namespace:id"
	Build(namespace, id string) (string, error)
	// Hash digests free-form parts into a stable id
	Hash(parts ...string) string
}
