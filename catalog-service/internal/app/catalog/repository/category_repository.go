package repository

import (
	"context"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository создает репозиторий категорий
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{collection: db.Collection(CategoriesCollection)}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, CategoriesCollection)
	result, err := r.collection.InsertOne(ctx, category)
	timer.ObserveDuration(err)
	if err != nil {
		return wrapWriteError("failed to create category", err)
	}

	category.ID = insertedID(result)
	return nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, CategoriesCollection)
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	timer.ObserveDuration(ignoreNoDocuments(err))
	if err != nil {
		return nil, findOneError("failed to get category", err)
	}

	return &category, nil
}

// ListVisible возвращает видимые категории, упорядоченные по position, затем по имени
func (r *categoryRepository) ListVisible(ctx context.Context) ([]entity.Category, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "position", Value: 1},
		{Key: "name", Value: 1},
	})

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, CategoriesCollection)
	cursor, err := r.collection.Find(ctx, bson.M{"is_visible": true}, opts)
	timer.ObserveDuration(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []entity.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}
