package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository создает репозиторий пользователей.
// Пользователи создаются сид-скриптом, сервис их только читает.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(UsersCollection)}
}

// GetByEmail ищет пользователя по email; email хранится в нижнем регистре
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, UsersCollection)
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	timer.ObserveDuration(ignoreNoDocuments(err))
	if err != nil {
		return nil, findOneError("failed to get user", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_login": at,
			"updated_at": at,
		},
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, UsersCollection)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	timer.ObserveDuration(err)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
