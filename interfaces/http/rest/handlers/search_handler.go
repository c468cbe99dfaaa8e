package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/services"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/interfaces/http/rest/validation"
	pkgerrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/observability"
)

// SearchHandler handles canvas search requests
type SearchHandler struct {
	searchSvc *services.SearchService
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchSvc *services.SearchService, metrics *observability.Collector, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchSvc: searchSvc,
		metrics:   metrics,
		logger:    logger,
	}
}

// SearchFiltersRequest narrows a result set; empty categories are no-ops
type SearchFiltersRequest struct {
	CardTypes     []string   `json:"cardTypes,omitempty" validate:"omitempty,dive,oneof=text checklist video link reminder"`
	Tags          []string   `json:"tags,omitempty"`
	CreatedAfter  *time.Time `json:"createdAfter,omitempty"`
	CreatedBefore *time.Time `json:"createdBefore,omitempty"`
}

// SearchRequest is the body of the single search endpoint
type SearchRequest struct {
	Mode         string                `json:"mode" validate:"required,oneof=keyword similarity relationship"`
	Text         string                `json:"text,omitempty"`
	SourceNodeID string                `json:"sourceNodeId,omitempty" validate:"omitempty,uuid"`
	MaxDegree    int                   `json:"maxDegree,omitempty" validate:"omitempty,min=1"`
	Filters      *SearchFiltersRequest `json:"filters,omitempty"`
}

// SearchResultResponse is one scored hit
type SearchResultResponse struct {
	NodeID         string   `json:"nodeId"`
	Score          float64  `json:"score"`
	MatchType      string   `json:"matchType"`
	Snippet        string   `json:"snippet"`
	ConnectionPath []string `json:"connectionPath,omitempty"`
}

// Search handles POST /canvases/{canvasID}/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	query, err := h.toQuery(req)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	results, err := h.searchSvc.Search(r.Context(), canvasID, query)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.ObserveSearch(req.Mode, time.Since(start))

	responses := make([]SearchResultResponse, 0, len(results))
	for _, result := range results {
		response := SearchResultResponse{
			NodeID:    result.NodeID.String(),
			Score:     result.Score,
			MatchType: string(result.MatchType),
			Snippet:   result.Snippet,
		}
		for _, hop := range result.ConnectionPath {
			response.ConnectionPath = append(response.ConnectionPath, hop.String())
		}
		responses = append(responses, response)
	}
	respondJSON(w, h.logger, http.StatusOK, responses)
}

func (h *SearchHandler) toQuery(req SearchRequest) (domainservices.SearchQuery, error) {
	mode, ok := domainservices.ParseSearchMode(req.Mode)
	if !ok {
		return domainservices.SearchQuery{}, pkgerrors.NewValidationError("unknown search mode: " + req.Mode)
	}

	var err error
	query := domainservices.SearchQuery{
		Mode:      mode,
		Text:      req.Text,
		MaxDegree: req.MaxDegree,
	}

	if req.SourceNodeID != "" {
		query.SourceNodeID, err = valueobjects.NewNodeIDFromString(req.SourceNodeID)
		if err != nil {
			return domainservices.SearchQuery{}, err
		}
	}

	if req.Filters != nil {
		query.Filters.Tags = req.Filters.Tags
		query.Filters.CreatedAfter = req.Filters.CreatedAfter
		query.Filters.CreatedBefore = req.Filters.CreatedBefore
		for _, raw := range req.Filters.CardTypes {
			cardType, err := entities.ParseCardType(raw)
			if err != nil {
				return domainservices.SearchQuery{}, err
			}
			query.Filters.CardTypes = append(query.Filters.CardTypes, cardType)
		}
	}

	return query, nil
}
