package models

// Cache namespaces, one per consumer adapter
const (
	NamespacePrice     = "price"
	NamespaceGeo       = "geo"
	NamespaceNarrative = "narrative"
)

// Namespaces lists every namespace the store rehydrates at start-up
var Namespaces = []string{NamespacePrice, NamespaceGeo, NamespaceNarrative}
