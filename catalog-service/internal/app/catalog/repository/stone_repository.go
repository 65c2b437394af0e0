package repository

import (
	"context"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stoneRepository struct {
	collection *mongo.Collection
}

// NewStoneRepository создает репозиторий камней
func NewStoneRepository(db *mongo.Database) StoneRepository {
	return &stoneRepository{collection: db.Collection(StonesCollection)}
}

func (r *stoneRepository) Create(ctx context.Context, stone *entity.Stone) error {
	now := time.Now().UTC()
	stone.CreatedAt = now
	stone.UpdatedAt = now

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, StonesCollection)
	result, err := r.collection.InsertOne(ctx, stone)
	timer.ObserveDuration(err)
	if err != nil {
		return wrapWriteError("failed to create stone", err)
	}

	stone.ID = insertedID(result)
	return nil
}

func (r *stoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Stone, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *stoneRepository) GetBySlug(ctx context.Context, slug string) (*entity.Stone, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *stoneRepository) findOne(ctx context.Context, filter bson.M) (*entity.Stone, error) {
	var stone entity.Stone

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, StonesCollection)
	err := r.collection.FindOne(ctx, filter).Decode(&stone)
	timer.ObserveDuration(ignoreNoDocuments(err))
	if err != nil {
		return nil, findOneError("failed to get stone", err)
	}

	return &stone, nil
}

// List возвращает страницу камней, новые первыми
func (r *stoneRepository) List(ctx context.Context, filter StoneFilter, page Page) ([]entity.Stone, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, StonesCollection)
	cursor, err := r.collection.Find(ctx, stoneFilterDoc(filter), opts)
	timer.ObserveDuration(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find stones: %w", err)
	}
	defer cursor.Close(ctx)

	stones := []entity.Stone{}
	if err := cursor.All(ctx, &stones); err != nil {
		return nil, fmt.Errorf("failed to decode stones: %w", err)
	}

	return stones, nil
}

func (r *stoneRepository) Count(ctx context.Context, filter StoneFilter) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCount, StonesCollection)
	total, err := r.collection.CountDocuments(ctx, stoneFilterDoc(filter))
	timer.ObserveDuration(err)
	if err != nil {
		return 0, fmt.Errorf("failed to count stones: %w", err)
	}
	return total, nil
}

func stoneFilterDoc(filter StoneFilter) bson.D {
	doc := bson.D{}
	if filter.Text != "" {
		doc = append(doc, bson.E{Key: "$text", Value: bson.M{"$search": filter.Text}})
	}
	if filter.Species != "" {
		doc = append(doc, bson.E{Key: "species", Value: filter.Species})
	}
	if filter.Shape != "" {
		doc = append(doc, bson.E{Key: "shape", Value: filter.Shape})
	}
	if filter.CategoryID != nil {
		doc = append(doc, bson.E{Key: "category_id", Value: *filter.CategoryID})
	}
	return doc
}

// newestFirst - порядок выдачи списков; _id фиксирует порядок при равном created_at
func newestFirst() bson.D {
	return bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	}
}
