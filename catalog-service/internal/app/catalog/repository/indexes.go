package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes создает уникальные, составные и текстовые индексы всех коллекций.
// Повторный вызов безопасен: существующие индексы с теми же параметрами пропускаются.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexModels() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CategoriesCollection: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("slug_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "is_visible", Value: 1}, {Key: "position", Value: 1}},
				Options: options.Index().SetName("visible_position_idx"),
			},
		},
		StonesCollection: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("slug_unique").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "species", Value: "text"},
					{Key: "shape", Value: "text"},
					{Key: "tags", Value: "text"},
				},
				Options: options.Index().SetName("stone_text_idx"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
		},
		ItemsCollection: {
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetName("code_unique").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "type", Value: 1},
					{Key: "availability", Value: 1},
					{Key: "species", Value: 1},
					{Key: "shape", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("list_filter_idx"),
			},
			{
				Keys:    bson.D{{Key: "stone_id", Value: 1}},
				Options: options.Index().SetName("stone_id_idx"),
			},
			{
				Keys:    bson.D{{Key: "carat_single", Value: 1}},
				Options: options.Index().SetName("carat_single_idx"),
			},
			{
				Keys:    bson.D{{Key: "carat_total", Value: 1}},
				Options: options.Index().SetName("carat_total_idx"),
			},
			{
				Keys:    bson.D{{Key: "piece_count", Value: 1}},
				Options: options.Index().SetName("piece_count_idx"),
			},
		},
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
		},
		InterestCollection: {
			{
				Keys:    bson.D{{Key: "item_id", Value: 1}, {Key: "ts", Value: -1}},
				Options: options.Index().SetName("item_ts_idx"),
			},
			{
				Keys:    bson.D{{Key: "ts", Value: -1}},
				Options: options.Index().SetName("ts_idx"),
			},
		},
	}
}
