package dynamodb

import (
	"context"
	"sort"

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

// SnapshotRepository implements ports.SnapshotRepository on DynamoDB
type SnapshotRepository struct {
	client *Client
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a snapshot repository backed by the shared client
func NewSnapshotRepository(client *Client) *SnapshotRepository {
	return &SnapshotRepository{client: client}
}

// Save stores a snapshot as a single item
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	if snapshot == nil {
		return pkgerrors.NewValidationError("snapshot cannot be nil")
	}

	record, err := snapshotToRecord(snapshot)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal snapshot item", err)
	}

	_, err = r.client.execute("PutSnapshot", func() (interface{}, error) {
		return r.client.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.client.table),
			Item:      item,
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to save snapshot")
	}
	return nil
}

// FindByCanvas retrieves all snapshots for a canvas, newest first
func (r *SnapshotRepository) FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Snapshot, error) {
	items, err := queryCanvasPartition(ctx, r.client, canvasID, snapshotSKPrefix, "QuerySnapshots")
	if err != nil {
		return nil, err
	}

	snapshots := make([]*entities.Snapshot, 0, len(items))
	for _, item := range items {
		var record snapshotRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal snapshot item", err)
		}
		snapshot, err := snapshotFromRecord(record)
		if err != nil {
			r.client.logger.Warn("skipping unreadable snapshot item",
				zap.String("canvas_id", canvasID.String()),
				zap.String("snapshot_id", record.SnapshotID),
				zap.Error(err),
			)
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp().Equal(snapshots[j].Timestamp()) {
			return snapshots[i].Timestamp().After(snapshots[j].Timestamp())
		}
		return snapshots[i].ID().String() < snapshots[j].ID().String()
	})
	return snapshots, nil
}

// Delete removes a snapshot; deleting a missing snapshot is not an error
func (r *SnapshotRepository) Delete(ctx context.Context, canvasID valueobjects.CanvasID, snapshotID valueobjects.SnapshotID) error {
	_, err := r.client.execute("DeleteSnapshot", func() (interface{}, error) {
		return r.client.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: canvasPK(canvasID.String())},
				"SK": &types.AttributeValueMemberS{Value: snapshotSKPrefix + snapshotID.String()},
			},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to delete snapshot")
	}
	return nil
}
