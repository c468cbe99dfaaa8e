package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/application/services"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/interfaces/http/rest/validation"
	"canvas-backend/pkg/observability"
)

// LayoutHandler handles node placement and canvas re-flow requests
type LayoutHandler struct {
	canvasSvc *services.CanvasService
	metrics   *observability.Collector
	// force holds the deployment-level simulation defaults; requests may
	// override the seed per call
	force  domainservices.ForceConfig
	logger *zap.Logger
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(
	canvasSvc *services.CanvasService,
	metrics *observability.Collector,
	forceDefaults *domainservices.ForceConfig,
	logger *zap.Logger,
) *LayoutHandler {
	if forceDefaults == nil {
		forceDefaults = domainservices.DefaultForceConfig()
	}
	return &LayoutHandler{
		canvasSvc: canvasSvc,
		metrics:   metrics,
		force:     *forceDefaults,
		logger:    logger,
	}
}

// PlaceNodeRequest asks for a position for one new node created from the
// given source nodes
type PlaceNodeRequest struct {
	SourceNodeIDs []string `json:"sourceNodeIds" validate:"omitempty,dive,uuid"`
}

// PositionResponse is one computed position
type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionUpdateResponse is one entry of a layout delta
type PositionUpdateResponse struct {
	NodeID string  `json:"nodeId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PlaceNode handles POST /canvases/{canvasID}/layout/place
func (h *LayoutHandler) PlaceNode(w http.ResponseWriter, r *http.Request) {
	canvasID, ok := h.canvasIDFromURL(w, r)
	if !ok {
		return
	}

	var req PlaceNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	sourceIDs, err := parseNodeIDs(req.SourceNodeIDs)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	position, err := h.canvasSvc.PlaceNewNode(r.Context(), canvasID, sourceIDs)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.ObserveLayout("place", time.Since(start))
	h.metrics.NodesPlaced.Inc()

	respondJSON(w, h.logger, http.StatusOK, PositionResponse{X: position.X(), Y: position.Y()})
}

// GrowChildrenRequest re-arranges externally created children of a parent
type GrowChildrenRequest struct {
	ParentNodeID string   `json:"parentNodeId" validate:"required,uuid"`
	ChildNodeIDs []string `json:"childNodeIds" validate:"required,min=1,dive,uuid"`
	Mode         string   `json:"mode" validate:"required,oneof=circular branch"`
}

// GrowChildren handles POST /canvases/{canvasID}/layout/grow
func (h *LayoutHandler) GrowChildren(w http.ResponseWriter, r *http.Request) {
	canvasID, ok := h.canvasIDFromURL(w, r)
	if !ok {
		return
	}

	var req GrowChildrenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	parentID, err := valueobjects.NewNodeIDFromString(req.ParentNodeID)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	childIDs, err := parseNodeIDs(req.ChildNodeIDs)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	updates, err := h.canvasSvc.GrowChildren(r.Context(), canvasID, parentID, childIDs, services.GrowMode(req.Mode))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.ObserveLayout("grow_"+req.Mode, time.Since(start))

	respondJSON(w, h.logger, http.StatusOK, toUpdateResponses(updates))
}

// ApplyLayoutRequest re-flows the whole canvas under one strategy
type ApplyLayoutRequest struct {
	Strategy       string   `json:"strategy" validate:"required,oneof=layered force radial circular"`
	CircularRadius *float64 `json:"circularRadius,omitempty" validate:"omitempty,gt=0"`
	ForceSeed      *int64   `json:"forceSeed,omitempty"`
	RadialBase     *float64 `json:"radialBaseRadius,omitempty" validate:"omitempty,gt=0"`
}

// NodePositionResponse is the post-layout position of one node
type NodePositionResponse struct {
	NodeID string  `json:"nodeId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ApplyLayout handles POST /canvases/{canvasID}/layout/apply
func (h *LayoutHandler) ApplyLayout(w http.ResponseWriter, r *http.Request) {
	canvasID, ok := h.canvasIDFromURL(w, r)
	if !ok {
		return
	}

	var req ApplyLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	strategy, ok := domainservices.ParseLayoutStrategy(req.Strategy)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "unknown layout strategy: "+req.Strategy)
		return
	}

	config := domainservices.LayoutConfig{Strategy: strategy}
	if req.CircularRadius != nil {
		config.CircularRadius = *req.CircularRadius
	}
	force := h.force
	if req.ForceSeed != nil {
		force.Seed = *req.ForceSeed
	}
	config.Force = &force
	if req.RadialBase != nil {
		radial := domainservices.DefaultRadialConfig()
		radial.BaseRadius = *req.RadialBase
		config.Radial = radial
	}

	start := time.Now()
	nodes, err := h.canvasSvc.Relayout(r.Context(), canvasID, config)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.ObserveLayout(req.Strategy, time.Since(start))

	positions := make([]NodePositionResponse, 0, len(nodes))
	for _, node := range nodes {
		positions = append(positions, NodePositionResponse{
			NodeID: node.ID().String(),
			X:      node.Position().X(),
			Y:      node.Position().Y(),
		})
	}
	respondJSON(w, h.logger, http.StatusOK, positions)
}

// StackBranchRequest stacks everything reachable forward from the sources
type StackBranchRequest struct {
	SourceNodeIDs []string `json:"sourceNodeIds" validate:"required,min=1,dive,uuid"`
}

// StackBranch handles POST /canvases/{canvasID}/layout/stack
func (h *LayoutHandler) StackBranch(w http.ResponseWriter, r *http.Request) {
	canvasID, ok := h.canvasIDFromURL(w, r)
	if !ok {
		return
	}

	var req StackBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	sourceIDs, err := parseNodeIDs(req.SourceNodeIDs)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	updates, err := h.canvasSvc.StackBranch(r.Context(), canvasID, sourceIDs)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	h.metrics.ObserveLayout("stack", time.Since(start))

	respondJSON(w, h.logger, http.StatusOK, toUpdateResponses(updates))
}

func (h *LayoutHandler) canvasIDFromURL(w http.ResponseWriter, r *http.Request) (valueobjects.CanvasID, bool) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return valueobjects.CanvasID{}, false
	}
	return canvasID, true
}

func parseNodeIDs(raw []string) ([]valueobjects.NodeID, error) {
	ids := make([]valueobjects.NodeID, 0, len(raw))
	for _, s := range raw {
		id, err := valueobjects.NewNodeIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toUpdateResponses(updates []ports.PositionUpdate) []PositionUpdateResponse {
	responses := make([]PositionUpdateResponse, 0, len(updates))
	for _, update := range updates {
		responses = append(responses, PositionUpdateResponse{
			NodeID: update.NodeID.String(),
			X:      update.Position.X(),
			Y:      update.Position.Y(),
		})
	}
	return responses
}
