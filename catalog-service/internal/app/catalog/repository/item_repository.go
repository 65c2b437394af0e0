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

type itemRepository struct {
	collection *mongo.Collection
}

// NewItemRepository создает репозиторий складских позиций
func NewItemRepository(db *mongo.Database) ItemRepository {
	return &itemRepository{collection: db.Collection(ItemsCollection)}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, ItemsCollection)
	result, err := r.collection.InsertOne(ctx, item)
	timer.ObserveDuration(err)
	if err != nil {
		return wrapWriteError("failed to create item", err)
	}

	item.ID = insertedID(result)
	return nil
}

func (r *itemRepository) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, ItemsCollection)
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&item)
	timer.ObserveDuration(ignoreNoDocuments(err))
	if err != nil {
		return nil, findOneError("failed to get item", err)
	}

	return &item, nil
}

// List возвращает страницу позиций, новые первыми.
// Использует составной индекс (type, availability, species, shape, created_at).
func (r *itemRepository) List(ctx context.Context, filter ItemFilter, page Page) ([]entity.InventoryItem, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, ItemsCollection)
	cursor, err := r.collection.Find(ctx, itemFilterDoc(filter), opts)
	timer.ObserveDuration(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []entity.InventoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	return items, nil
}

// Count считает все совпадения фильтра независимо от окна пагинации
func (r *itemRepository) Count(ctx context.Context, filter ItemFilter) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCount, ItemsCollection)
	total, err := r.collection.CountDocuments(ctx, itemFilterDoc(filter))
	timer.ObserveDuration(err)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return total, nil
}

func itemFilterDoc(filter ItemFilter) bson.D {
	doc := bson.D{}
	if filter.Type != "" {
		doc = append(doc, bson.E{Key: "type", Value: filter.Type})
	}
	if filter.Availability != "" {
		doc = append(doc, bson.E{Key: "availability", Value: filter.Availability})
	}
	if filter.Species != "" {
		doc = append(doc, bson.E{Key: "species", Value: filter.Species})
	}
	if filter.Shape != "" {
		doc = append(doc, bson.E{Key: "shape", Value: filter.Shape})
	}
	return doc
}
