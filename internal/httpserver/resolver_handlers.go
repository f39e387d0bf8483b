package httpserver

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/oracle"
)

// handlePrice handles GET /price/{base}/{quote}
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	base, quote := strings.TrimSpace(vars["base"]), strings.TrimSpace(vars["quote"])
	if base == "" || quote == "" {
		s.writeErrorResponse(w, "Missing required path parameters: base, quote", http.StatusBadRequest)
		return
	}

	result := s.prices.Quote(r.Context(), base, quote)
	result.Value = oracle.Round(result.Value, s.prices.Precision())

	s.logger.Debug("Served price",
		zap.String("base", base),
		zap.String("quote", quote),
		zap.String("tier", string(result.Tier)))
	s.writeResponse(w, result)
}

// handleGeo handles GET /geo/{product}?origin=
func (s *Server) handleGeo(w http.ResponseWriter, r *http.Request) {
	product := strings.TrimSpace(mux.Vars(r)["product"])
	if product == "" {
		s.writeErrorResponse(w, "Missing required path parameter: product", http.StatusBadRequest)
		return
	}

	result := s.locations.Locate(r.Context(), product, r.URL.Query().Get("origin"))
	s.writeResponse(w, result)
}

// handleNarrative handles POST /narrative
func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	var req NarrativeRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Crop) == "" {
		s.writeErrorResponse(w, "Missing required field: crop", http.StatusBadRequest)
		return
	}

	result := s.narratives.Generate(r.Context(), models.NarrativeRequest{
		Crop:   req.Crop,
		Region: req.Region,
		Prompt: req.Prompt,
	})
	s.writeResponse(w, result)
}
