package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// EdgeRepository implements ports.EdgeRepository on DynamoDB
type EdgeRepository struct {
	client *Client
}

var _ ports.EdgeRepository = (*EdgeRepository)(nil)

// NewEdgeRepository creates an edge repository backed by the shared client
func NewEdgeRepository(client *Client) *EdgeRepository {
	return &EdgeRepository{client: client}
}

// Save stores an edge, inserting or replacing by ID
func (r *EdgeRepository) Save(ctx context.Context, canvasID valueobjects.CanvasID, edge *entities.Edge) error {
	if edge == nil {
		return pkgerrors.NewValidationError("edge cannot be nil")
	}

	item, err := attributevalue.MarshalMap(edgeToRecord(canvasID, edge))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal edge item", err)
	}

	_, err = r.client.execute("PutEdge", func() (interface{}, error) {
		return r.client.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.client.table),
			Item:      item,
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to save edge")
	}
	return nil
}

// FindByCanvas retrieves all edges on a canvas
func (r *EdgeRepository) FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Edge, error) {
	items, err := queryCanvasPartition(ctx, r.client, canvasID, edgeSKPrefix, "QueryEdges")
	if err != nil {
		return nil, err
	}

	edges := make([]*entities.Edge, 0, len(items))
	for _, item := range items {
		var record edgeRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal edge item", err)
		}
		edge, err := edgeFromRecord(record)
		if err != nil {
			r.client.logger.Warn("skipping unreadable edge item",
				zap.String("canvas_id", canvasID.String()),
				zap.String("edge_id", record.EdgeID),
				zap.Error(err),
			)
			continue
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// Delete removes an edge; deleting a missing edge is not an error
func (r *EdgeRepository) Delete(ctx context.Context, canvasID valueobjects.CanvasID, edgeID valueobjects.EdgeID) error {
	_, err := r.client.execute("DeleteEdge", func() (interface{}, error) {
		return r.client.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: canvasPK(canvasID.String())},
				"SK": &types.AttributeValueMemberS{Value: edgeSKPrefix + edgeID.String()},
			},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to delete edge")
	}
	return nil
}
