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
)

// GraphHandler handles node and edge CRUD on a canvas
type GraphHandler struct {
	canvasSvc *services.CanvasService
	logger    *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(canvasSvc *services.CanvasService, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		canvasSvc: canvasSvc,
		logger:    logger,
	}
}

// CreateNodeRequest carries a new node. Card is the discriminated payload
// envelope: {"cardType": ..., "payload": {...}}.
type CreateNodeRequest struct {
	Title string          `json:"title"`
	Card  json.RawMessage `json:"card" validate:"required"`
	X     float64         `json:"x"`
	Y     float64         `json:"y"`
	Tags  []string        `json:"tags" validate:"omitempty,dive,min=1"`
}

// CreateEdgeRequest connects two existing nodes
type CreateEdgeRequest struct {
	SourceNodeID string `json:"sourceNodeId" validate:"required,uuid"`
	TargetNodeID string `json:"targetNodeId" validate:"required,uuid"`
	EdgeType     string `json:"edgeType" validate:"omitempty,oneof=default reference"`
}

// NodeResponse is the wire form of one node
type NodeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CardType  string    `json:"cardType"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
	Tags      []string  `json:"tags"`
	ParentID  string    `json:"parentId,omitempty"`
	Collapsed bool      `json:"collapsed"`
	CreatedAt time.Time `json:"createdAt"`
}

// EdgeResponse is the wire form of one edge
type EdgeResponse struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"sourceNodeId"`
	TargetNodeID string `json:"targetNodeId"`
	EdgeType     string `json:"edgeType"`
}

// GraphResponse is a canvas's complete collections
type GraphResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Edges []EdgeResponse `json:"edges"`
}

// CreateNode handles POST /canvases/{canvasID}/nodes
func (h *GraphHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	data, err := entities.UnmarshalCardData(req.Card)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	position, err := valueobjects.NewPosition(req.X, req.Y)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	node, err := h.canvasSvc.CreateNode(r.Context(), canvasID, req.Title, data, position, req.Tags)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toNodeResponse(node))
}

// GetNode handles GET /canvases/{canvasID}/nodes/{nodeID}
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.canvasSvc.GetNode(r.Context(), canvasID, nodeID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toNodeResponse(node))
}

// DeleteNode handles DELETE /canvases/{canvasID}/nodes/{nodeID}
func (h *GraphHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.canvasSvc.DeleteNode(r.Context(), canvasID, nodeID); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateEdge handles POST /canvases/{canvasID}/edges
func (h *GraphHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	sourceID, err := valueobjects.NewNodeIDFromString(req.SourceNodeID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	targetID, err := valueobjects.NewNodeIDFromString(req.TargetNodeID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	edge, err := h.canvasSvc.CreateEdge(r.Context(), canvasID, sourceID, targetID, entities.EdgeType(req.EdgeType))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toEdgeResponse(edge))
}

// DeleteEdge handles DELETE /canvases/{canvasID}/edges/{edgeID}
func (h *GraphHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	edgeID, err := valueobjects.NewEdgeIDFromString(chi.URLParam(r, "edgeID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.canvasSvc.DeleteEdge(r.Context(), canvasID, edgeID); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /canvases/{canvasID}/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	canvasID, err := valueobjects.NewCanvasIDFromString(chi.URLParam(r, "canvasID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	nodes, edges, err := h.canvasSvc.GetGraph(r.Context(), canvasID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	response := GraphResponse{
		Nodes: make([]NodeResponse, 0, len(nodes)),
		Edges: make([]EdgeResponse, 0, len(edges)),
	}
	for _, node := range nodes {
		response.Nodes = append(response.Nodes, toNodeResponse(node))
	}
	for _, edge := range edges {
		response.Edges = append(response.Edges, toEdgeResponse(edge))
	}

	respondJSON(w, h.logger, http.StatusOK, response)
}

func toNodeResponse(node *entities.Node) NodeResponse {
	response := NodeResponse{
		ID:        node.ID().String(),
		Title:     node.Title(),
		CardType:  string(node.CardType()),
		X:         node.Position().X(),
		Y:         node.Position().Y(),
		Tags:      node.Tags(),
		Collapsed: node.IsCollapsed(),
		CreatedAt: node.CreatedAt(),
	}
	if !node.Dimensions().IsZero() {
		response.Width = node.Dimensions().Width()
		response.Height = node.Dimensions().Height()
	}
	if node.HasParent() {
		response.ParentID = node.ParentID().String()
	}
	return response
}

func toEdgeResponse(edge *entities.Edge) EdgeResponse {
	return EdgeResponse{
		ID:           edge.ID().String(),
		SourceNodeID: edge.SourceID().String(),
		TargetNodeID: edge.TargetID().String(),
		EdgeType:     string(edge.Type()),
	}
}
