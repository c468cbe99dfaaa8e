package services

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	pkgerrors "canvas-backend/pkg/errors"
)

// SearchService fetches a canvas's collections from the store and runs the
// domain search index over them. Keyword mode also reaches into the
// canvas's historical snapshots so deleted or since-modified content stays
// findable.
type SearchService struct {
	nodes     ports.NodeRepository
	edges     ports.EdgeRepository
	snapshots ports.SnapshotRepository
	index     *domainservices.SearchIndex
	logger    *zap.Logger
}

// NewSearchService creates a search service
func NewSearchService(
	nodes ports.NodeRepository,
	edges ports.EdgeRepository,
	snapshots ports.SnapshotRepository,
	index *domainservices.SearchIndex,
	logger *zap.Logger,
) *SearchService {
	if index == nil {
		index = domainservices.NewSearchIndex(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		nodes:     nodes,
		edges:     edges,
		snapshots: snapshots,
		index:     index,
		logger:    logger,
	}
}

// Search runs one query against a canvas
func (s *SearchService) Search(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	query domainservices.SearchQuery,
) ([]domainservices.SearchResult, error) {
	allNodes, err := s.nodes.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load nodes")
	}
	allEdges, err := s.edges.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load edges")
	}

	var snapshots []*entities.Snapshot
	if query.Mode == domainservices.SearchModeKeyword {
		snapshots, err = s.snapshots.FindByCanvas(ctx, canvasID)
		if err != nil {
			// Historical enrichment is best-effort; the current graph is
			// still searchable without it
			s.logger.Warn("historical search degraded: snapshot listing failed",
				zap.String("canvas_id", canvasID.String()),
				zap.Error(err))
			snapshots = nil
		}
	}

	return s.index.Search(query, allNodes, allEdges, snapshots), nil
}
