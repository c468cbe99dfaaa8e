package dynamodb

import (
	"time"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// nodeRecord is the stored shape of a node. Card payloads are kept as their
// JSON envelope so new card types never require a table migration.
type nodeRecord struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	NodeID     string   `dynamodbav:"NodeID"`
	CanvasID   string   `dynamodbav:"CanvasID"`
	CardType   string   `dynamodbav:"CardType"`
	Title      string   `dynamodbav:"Title"`
	PositionX  float64  `dynamodbav:"PositionX"`
	PositionY  float64  `dynamodbav:"PositionY"`
	Width      float64  `dynamodbav:"Width"`
	Height     float64  `dynamodbav:"Height"`
	Data       string   `dynamodbav:"Data"`
	Tags       []string `dynamodbav:"Tags,omitempty"`
	ParentID   string   `dynamodbav:"ParentID,omitempty"`
	Collapsed  bool     `dynamodbav:"Collapsed"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
}

type edgeRecord struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	EntityType      string `dynamodbav:"EntityType"`
	EdgeID          string `dynamodbav:"EdgeID"`
	CanvasID        string `dynamodbav:"CanvasID"`
	SourceID        string `dynamodbav:"SourceID"`
	TargetID        string `dynamodbav:"TargetID"`
	EdgeType        string `dynamodbav:"EdgeType"`
	TargetReadCount *int   `dynamodbav:"TargetReadCount,omitempty"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
}

// snapshotRecord embeds the full captured graph in one item. Canvases are
// bounded in size, so a snapshot comfortably fits the item limit.
type snapshotRecord struct {
	PK           string           `dynamodbav:"PK"`
	SK           string           `dynamodbav:"SK"`
	EntityType   string           `dynamodbav:"EntityType"`
	SnapshotID   string           `dynamodbav:"SnapshotID"`
	CanvasID     string           `dynamodbav:"CanvasID"`
	Timestamp    string           `dynamodbav:"Timestamp"`
	Nodes        []snapshotNode   `dynamodbav:"Nodes"`
	Edges        []snapshotEdge   `dynamodbav:"Edges"`
	ViewportX    float64          `dynamodbav:"ViewportX"`
	ViewportY    float64          `dynamodbav:"ViewportY"`
	ViewportZoom float64          `dynamodbav:"ViewportZoom"`
}

type snapshotNode struct {
	NodeID    string   `dynamodbav:"NodeID"`
	CardType  string   `dynamodbav:"CardType"`
	Title     string   `dynamodbav:"Title"`
	PositionX float64  `dynamodbav:"PositionX"`
	PositionY float64  `dynamodbav:"PositionY"`
	Width     float64  `dynamodbav:"Width"`
	Height    float64  `dynamodbav:"Height"`
	Data      string   `dynamodbav:"Data"`
	Tags      []string `dynamodbav:"Tags,omitempty"`
	ParentID  string   `dynamodbav:"ParentID,omitempty"`
	Collapsed bool     `dynamodbav:"Collapsed"`
	CreatedAt string   `dynamodbav:"CreatedAt"`
}

type snapshotEdge struct {
	EdgeID          string `dynamodbav:"EdgeID"`
	SourceID        string `dynamodbav:"SourceID"`
	TargetID        string `dynamodbav:"TargetID"`
	EdgeType        string `dynamodbav:"EdgeType"`
	TargetReadCount *int   `dynamodbav:"TargetReadCount,omitempty"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
}

func nodeToRecord(canvasID valueobjects.CanvasID, node *entities.Node) (nodeRecord, error) {
	data, err := entities.MarshalCardData(node.Data())
	if err != nil {
		return nodeRecord{}, pkgerrors.Wrap(err, "failed to serialize card data")
	}

	record := nodeRecord{
		PK:         canvasPK(canvasID.String()),
		SK:         nodeSKPrefix + node.ID().String(),
		EntityType: "NODE",
		NodeID:     node.ID().String(),
		CanvasID:   canvasID.String(),
		CardType:   string(node.CardType()),
		Title:      node.Title(),
		PositionX:  node.Position().X(),
		PositionY:  node.Position().Y(),
		Width:      node.Dimensions().Width(),
		Height:     node.Dimensions().Height(),
		Data:       string(data),
		Tags:       node.Tags(),
		Collapsed:  node.IsCollapsed(),
		CreatedAt:  node.CreatedAt().Format(time.RFC3339Nano),
	}
	if node.HasParent() {
		record.ParentID = node.ParentID().String()
	}
	return record, nil
}

func nodeFromRecord(record nodeRecord) (*entities.Node, error) {
	return rebuildNode(
		record.NodeID, record.CardType, record.Title,
		record.PositionX, record.PositionY, record.Width, record.Height,
		record.Data, record.Tags, record.ParentID, record.Collapsed, record.CreatedAt,
	)
}

func rebuildNode(
	id, cardType, title string,
	x, y, width, height float64,
	data string, tags []string, parentID string, collapsed bool, createdAt string,
) (*entities.Node, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(id)
	if err != nil {
		return nil, err
	}

	parsedType, err := entities.ParseCardType(cardType)
	if err != nil {
		return nil, err
	}

	position, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return nil, err
	}

	var dimensions valueobjects.Dimensions
	if width > 0 && height > 0 {
		dimensions, err = valueobjects.NewDimensions(width, height)
		if err != nil {
			return nil, err
		}
	}

	payload, err := entities.UnmarshalCardData([]byte(data))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to deserialize card data")
	}

	var parent valueobjects.NodeID
	if parentID != "" {
		parent, err = valueobjects.NewNodeIDFromString(parentID)
		if err != nil {
			return nil, err
		}
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("invalid stored timestamp", err)
	}

	node, err := entities.ReconstructNode(nodeID, parsedType, title, position, dimensions, payload, tags, parent, created)
	if err != nil {
		return nil, err
	}
	node.SetCollapsed(collapsed)
	return node, nil
}

func edgeToRecord(canvasID valueobjects.CanvasID, edge *entities.Edge) edgeRecord {
	record := edgeRecord{
		PK:         canvasPK(canvasID.String()),
		SK:         edgeSKPrefix + edge.ID().String(),
		EntityType: "EDGE",
		EdgeID:     edge.ID().String(),
		CanvasID:   canvasID.String(),
		SourceID:   edge.SourceID().String(),
		TargetID:   edge.TargetID().String(),
		EdgeType:   string(edge.Type()),
		CreatedAt:  edge.CreatedAt().Format(time.RFC3339Nano),
	}
	if count, ok := edge.TargetReadCount(); ok {
		record.TargetReadCount = &count
	}
	return record
}

func edgeFromRecord(record edgeRecord) (*entities.Edge, error) {
	return rebuildEdge(record.EdgeID, record.SourceID, record.TargetID, record.EdgeType, record.TargetReadCount, record.CreatedAt)
}

func rebuildEdge(id, sourceID, targetID, edgeType string, readCount *int, createdAt string) (*entities.Edge, error) {
	edgeID, err := valueobjects.NewEdgeIDFromString(id)
	if err != nil {
		return nil, err
	}
	source, err := valueobjects.NewNodeIDFromString(sourceID)
	if err != nil {
		return nil, err
	}
	target, err := valueobjects.NewNodeIDFromString(targetID)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("invalid stored timestamp", err)
	}
	return entities.ReconstructEdge(edgeID, source, target, entities.EdgeType(edgeType), readCount, created)
}

func snapshotToRecord(snapshot *entities.Snapshot) (snapshotRecord, error) {
	nodes := snapshot.Nodes()
	edges := snapshot.Edges()

	record := snapshotRecord{
		PK:           canvasPK(snapshot.CanvasID().String()),
		SK:           snapshotSKPrefix + snapshot.ID().String(),
		EntityType:   "SNAPSHOT",
		SnapshotID:   snapshot.ID().String(),
		CanvasID:     snapshot.CanvasID().String(),
		Timestamp:    snapshot.Timestamp().Format(time.RFC3339Nano),
		Nodes:        make([]snapshotNode, 0, len(nodes)),
		Edges:        make([]snapshotEdge, 0, len(edges)),
		ViewportX:    snapshot.Viewport().X(),
		ViewportY:    snapshot.Viewport().Y(),
		ViewportZoom: snapshot.Viewport().Zoom(),
	}

	for _, node := range nodes {
		data, err := entities.MarshalCardData(node.Data())
		if err != nil {
			return snapshotRecord{}, pkgerrors.Wrap(err, "failed to serialize card data")
		}
		captured := snapshotNode{
			NodeID:    node.ID().String(),
			CardType:  string(node.CardType()),
			Title:     node.Title(),
			PositionX: node.Position().X(),
			PositionY: node.Position().Y(),
			Width:     node.Dimensions().Width(),
			Height:    node.Dimensions().Height(),
			Data:      string(data),
			Tags:      node.Tags(),
			Collapsed: node.IsCollapsed(),
			CreatedAt: node.CreatedAt().Format(time.RFC3339Nano),
		}
		if node.HasParent() {
			captured.ParentID = node.ParentID().String()
		}
		record.Nodes = append(record.Nodes, captured)
	}

	for _, edge := range edges {
		captured := snapshotEdge{
			EdgeID:    edge.ID().String(),
			SourceID:  edge.SourceID().String(),
			TargetID:  edge.TargetID().String(),
			EdgeType:  string(edge.Type()),
			CreatedAt: edge.CreatedAt().Format(time.RFC3339Nano),
		}
		if count, ok := edge.TargetReadCount(); ok {
			captured.TargetReadCount = &count
		}
		record.Edges = append(record.Edges, captured)
	}

	return record, nil
}

func snapshotFromRecord(record snapshotRecord) (*entities.Snapshot, error) {
	snapshotID, err := valueobjects.NewSnapshotIDFromString(record.SnapshotID)
	if err != nil {
		return nil, err
	}
	canvasID, err := valueobjects.NewCanvasIDFromString(record.CanvasID)
	if err != nil {
		return nil, err
	}
	timestamp, err := time.Parse(time.RFC3339Nano, record.Timestamp)
	if err != nil {
		return nil, pkgerrors.NewInternalError("invalid stored timestamp", err)
	}
	viewport, err := valueobjects.NewViewport(record.ViewportX, record.ViewportY, record.ViewportZoom)
	if err != nil {
		return nil, err
	}

	nodes := make([]*entities.Node, 0, len(record.Nodes))
	for _, captured := range record.Nodes {
		node, err := rebuildNode(
			captured.NodeID, captured.CardType, captured.Title,
			captured.PositionX, captured.PositionY, captured.Width, captured.Height,
			captured.Data, captured.Tags, captured.ParentID, captured.Collapsed, captured.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	edges := make([]*entities.Edge, 0, len(record.Edges))
	for _, captured := range record.Edges {
		edge, err := rebuildEdge(
			captured.EdgeID, captured.SourceID, captured.TargetID,
			captured.EdgeType, captured.TargetReadCount, captured.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	return entities.ReconstructSnapshot(snapshotID, canvasID, timestamp, nodes, edges, viewport)
}
