package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const serviceName = "catalog-service"

// Имена коллекций MongoDB
const (
	CategoriesCollection = "categories"
	StonesCollection     = "stones"
	ItemsCollection      = "inventory_items"
	UsersCollection      = "users"
	InterestCollection   = "interest_events"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Page - окно выборки для offset-пагинации
type Page struct {
	Skip  int64
	Limit int64
}

// ItemFilter - точные совпадения, пустое поле не ограничивает выборку
type ItemFilter struct {
	Type         entity.ItemType
	Species      string
	Shape        string
	Availability entity.Availability
}

// StoneFilter - фильтры списка камней; Text ищет по текстовому индексу
type StoneFilter struct {
	Species    string
	Shape      string
	CategoryID *primitive.ObjectID
	Text       string
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	ListVisible(ctx context.Context) ([]entity.Category, error)
}

type StoneRepository interface {
	Create(ctx context.Context, stone *entity.Stone) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Stone, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Stone, error)
	List(ctx context.Context, filter StoneFilter, page Page) ([]entity.Stone, error)
	Count(ctx context.Context, filter StoneFilter) (int64, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter ItemFilter, page Page) ([]entity.InventoryItem, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// InterestRepository - журнал интереса, записи только добавляются
type InterestRepository interface {
	Create(ctx context.Context, event *entity.InterestEvent) error
	SummarizeSince(ctx context.Context, since time.Time, limit int64) ([]entity.ItemInterest, error)
}

// wrapWriteError переводит нарушение уникального индекса в ErrDuplicateKey
func wrapWriteError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// findOneError переводит mongo.ErrNoDocuments в ErrNotFound
func findOneError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func insertedID(result *mongo.InsertOneResult) primitive.ObjectID {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid
	}
	return primitive.NilObjectID
}

// ignoreNoDocuments - промах по ключу не считается ошибкой БД в метриках
func ignoreNoDocuments(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
