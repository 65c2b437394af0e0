package repository

import (
	"context"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type interestRepository struct {
	collection *mongo.Collection
}

// NewInterestRepository создает репозиторий журнала интереса
func NewInterestRepository(db *mongo.Database) InterestRepository {
	return &interestRepository{collection: db.Collection(InterestCollection)}
}

func (r *interestRepository) Create(ctx context.Context, event *entity.InterestEvent) error {
	if event.TS.IsZero() {
		event.TS = time.Now().UTC()
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, InterestCollection)
	result, err := r.collection.InsertOne(ctx, event)
	timer.ObserveDuration(err)
	if err != nil {
		return wrapWriteError("failed to create interest event", err)
	}

	event.ID = insertedID(result)
	return nil
}

// SummarizeSince группирует события после since по позиции,
// самые востребованные позиции первыми
func (r *interestRepository) SummarizeSince(ctx context.Context, since time.Time, limit int64) ([]entity.ItemInterest, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ts": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$item_id",
			"count":     bson.M{"$sum": 1},
			"last_seen": bson.M{"$max": "$ts"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpAggregate, InterestCollection)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	timer.ObserveDuration(err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate interest events: %w", err)
	}
	defer cursor.Close(ctx)

	summary := []entity.ItemInterest{}
	if err := cursor.All(ctx, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode interest summary: %w", err)
	}

	return summary, nil
}
