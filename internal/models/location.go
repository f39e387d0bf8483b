package models

import "time"

// GeoQuery identifies the product whose supply-chain history is requested
type GeoQuery struct {
	ProductID string
	Origin    string // free-form place name declared for the product, optional
}

// Location is one point of a product's supply-chain history
type Location struct {
	Name      string    `json:"name" yaml:"name"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	Stage     string    `json:"stage,omitempty" yaml:"stage"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp"`
}
