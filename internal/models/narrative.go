package models

// NarrativeRequest is a free-text generation request for a crop listing
type NarrativeRequest struct {
	Crop   string `json:"crop"`
	Region string `json:"region,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}
