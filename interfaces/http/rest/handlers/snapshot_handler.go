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
	"canvas-backend/interfaces/http/rest/validation"
	"canvas-backend/pkg/observability"
)

// SnapshotHandler handles snapshot capture and listing
type SnapshotHandler struct {
	canvasSvc *services.CanvasService
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(canvasSvc *services.CanvasService, metrics *observability.Collector, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		canvasSvc: canvasSvc,
		metrics:   metrics,
		logger:    logger,
	}
}

// CaptureSnapshotRequest records the viewport alongside the captured graph
type CaptureSnapshotRequest struct {
	ViewportX    float64 `json:"viewportX"`
	ViewportY    float64 `json:"viewportY"`
	ViewportZoom float64 `json:"viewportZoom" validate:"omitempty,gt=0"`
}

// SnapshotResponse summarizes one stored snapshot
type SnapshotResponse struct {
	ID             string         `json:"id"`
	CanvasID       string         `json:"canvasId"`
	Timestamp      time.Time      `json:"timestamp"`
	NodeCount      int            `json:"nodeCount"`
	EdgeCount      int            `json:"edgeCount"`
	CardTypeCounts map[string]int `json:"cardTypeCounts"`
	Tags           []string       `json:"tags"`
}

// Capture handles POST /canvases/{canvasID}/snapshots
func (h *SnapshotHandler) Capture(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var req CaptureSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	viewport := valueobjects.DefaultViewport()
	if req.ViewportZoom > 0 {
		viewport, err = valueobjects.NewViewport(req.ViewportX, req.ViewportY, req.ViewportZoom)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
	}

	snapshot, err := h.canvasSvc.CaptureSnapshot(r.Context(), canvasID, viewport)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.SnapshotsCreated.Inc()

	respondJSON(w, h.logger, http.StatusCreated, toSnapshotResponse(snapshot))
}

// List handles GET /canvases/{canvasID}/snapshots
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	snapshots, err := h.canvasSvc.ListSnapshots(r.Context(), canvasID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	responses := make([]SnapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		responses = append(responses, toSnapshotResponse(snapshot))
	}
	respondJSON(w, h.logger, http.StatusOK, responses)
}

func toSnapshotResponse(snapshot *entities.Snapshot) SnapshotResponse {
	metadata := snapshot.Metadata()
	counts := make(map[string]int, len(metadata.CardTypeCounts))
	for cardType, count := range metadata.CardTypeCounts {
		counts[string(cardType)] = count
	}
	return SnapshotResponse{
		ID:             snapshot.ID().String(),
		CanvasID:       snapshot.CanvasID().String(),
		Timestamp:      snapshot.Timestamp(),
		NodeCount:      metadata.NodeCount,
		EdgeCount:      metadata.EdgeCount,
		CardTypeCounts: counts,
		Tags:           metadata.Tags,
	}
}
