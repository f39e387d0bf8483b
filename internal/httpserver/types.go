package httpserver

// NarrativeRequest is the body of POST /narrative
type NarrativeRequest struct {
	Crop   string `json:"crop"`
	Region string `json:"region,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
