package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// NodeRepository implements ports.NodeRepository on DynamoDB
type NodeRepository struct {
	client *Client
}

var _ ports.NodeRepository = (*NodeRepository)(nil)

// NewNodeRepository creates a node repository backed by the shared client
func NewNodeRepository(client *Client) *NodeRepository {
	return &NodeRepository{client: client}
}

// Save stores a node, inserting or replacing by ID
func (r *NodeRepository) Save(ctx context.Context, canvasID valueobjects.CanvasID, node *entities.Node) error {
	record, err := nodeToRecord(canvasID, node)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal node item", err)
	}

	_, err = r.client.execute("PutNode", func() (interface{}, error) {
		return r.client.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.client.table),
			Item:      item,
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to save node")
	}
	return nil
}

// FindByID retrieves a node by ID within a canvas
func (r *NodeRepository) FindByID(ctx context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) (*entities.Node, error) {
	result, err := r.client.execute("GetNode", func() (interface{}, error) {
		return r.client.db.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.client.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: canvasPK(canvasID.String())},
				"SK": &types.AttributeValueMemberS{Value: nodeSKPrefix + nodeID.String()},
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get node")
	}

	output := result.(*dynamodb.GetItemOutput)
	if output.Item == nil {
		return nil, pkgerrors.NewNotFoundError("node not found: " + nodeID.String())
	}

	var record nodeRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal node item", err)
	}
	return nodeFromRecord(record)
}

// FindByCanvas retrieves all nodes on a canvas
func (r *NodeRepository) FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Node, error) {
	items, err := r.queryPartition(ctx, canvasID, nodeSKPrefix, "QueryNodes")
	if err != nil {
		return nil, err
	}

	nodes := make([]*entities.Node, 0, len(items))
	for _, item := range items {
		var record nodeRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal node item", err)
		}
		node, err := nodeFromRecord(record)
		if err != nil {
			// Skip corrupt rows instead of failing the whole canvas load
			r.client.logger.Warn("skipping unreadable node item",
				zap.String("canvas_id", canvasID.String()),
				zap.String("node_id", record.NodeID),
				zap.Error(err),
			)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Delete removes a node; deleting a missing node is not an error
func (r *NodeRepository) Delete(ctx context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) error {
	_, err := r.client.execute("DeleteNode", func() (interface{}, error) {
		return r.client.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: canvasPK(canvasID.String())},
				"SK": &types.AttributeValueMemberS{Value: nodeSKPrefix + nodeID.String()},
			},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to delete node")
	}
	return nil
}

// BatchUpdatePositions applies a layout delta one conditional write per
// node. Each update requires the node to still exist, and a node deleted
// after the delta was computed is skipped so the rest of the delta still
// lands.
func (r *NodeRepository) BatchUpdatePositions(ctx context.Context, canvasID valueobjects.CanvasID, updates []ports.PositionUpdate) error {
	skipped := 0
	for _, update := range updates {
		expr, err := expression.NewBuilder().
			WithUpdate(expression.
				Set(expression.Name("PositionX"), expression.Value(update.Position.X())).
				Set(expression.Name("PositionY"), expression.Value(update.Position.Y()))).
			WithCondition(expression.AttributeExists(expression.Name("PK"))).
			Build()
		if err != nil {
			return pkgerrors.NewInternalError("failed to build position update expression", err)
		}

		input := &dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: canvasPK(canvasID.String())},
				"SK": &types.AttributeValueMemberS{Value: nodeSKPrefix + update.NodeID.String()},
			},
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}

		_, err = r.client.execute("UpdateNodePosition", func() (interface{}, error) {
			out, err := r.client.db.UpdateItem(ctx, input)
			if err != nil {
				var conditionFailed *types.ConditionalCheckFailedException
				if errors.As(err, &conditionFailed) {
					// Node was deleted mid-layout; not a store fault
					skipped++
					return nil, nil
				}
			}
			return out, err
		})
		if err != nil {
			return pkgerrors.Wrap(err, fmt.Sprintf("failed to update position of node %s", update.NodeID.String()))
		}
	}

	if skipped > 0 {
		r.client.logger.Warn("position updates skipped for deleted nodes",
			zap.String("canvas_id", canvasID.String()),
			zap.Int("skipped", skipped),
			zap.Int("total", len(updates)),
		)
	}
	return nil
}

// queryPartition pages through one canvas partition filtered by SK prefix
func (r *NodeRepository) queryPartition(ctx context.Context, canvasID valueobjects.CanvasID, skPrefix, op string) ([]map[string]types.AttributeValue, error) {
	return queryCanvasPartition(ctx, r.client, canvasID, skPrefix, op)
}

func queryCanvasPartition(ctx context.Context, client *Client, canvasID valueobjects.CanvasID, skPrefix, op string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(canvasPK(canvasID.String()))).
		And(expression.Key("SK").BeginsWith(skPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query expression", err)
	}

	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(client.table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		}

		result, err := client.execute(op, func() (interface{}, error) {
			return client.db.Query(ctx, input)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to query canvas partition")
		}

		output := result.(*dynamodb.QueryOutput)
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		lastKey = output.LastEvaluatedKey
	}

	return items, nil
}
