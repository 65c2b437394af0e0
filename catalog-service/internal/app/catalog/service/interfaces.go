package service

import (
	"context"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*LoginResult, error)
	Me(ctx context.Context, subjectID string) (*entity.User, error)
	Identify(token string) *entity.Identity
}

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, slug string) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)

	CreateStone(ctx context.Context, req *entity.CreateStoneRequest) (*entity.Stone, error)
	GetStone(ctx context.Context, slug string) (*entity.Stone, error)
	ListStones(ctx context.Context, query *entity.ListStonesQuery) (*entity.StoneListResponse, error)

	CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.InventoryItem, error)
	GetItem(ctx context.Context, code string) (*entity.InventoryItem, error)
	ListItems(ctx context.Context, query *entity.ListItemsQuery) (*entity.ItemListResponse, error)
}

type InterestServiceInterface interface {
	RecordInterest(ctx context.Context, code, referer, userAgent string) (*entity.InterestResponse, error)
	Persist(ctx context.Context, event *entity.InterestEvent) error
	Rollup(ctx context.Context) (*entity.InterestSummary, error)
	Summary(ctx context.Context) (*entity.InterestSummary, error)
}

var (
	_ AuthServiceInterface     = (*AuthService)(nil)
	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ InterestServiceInterface = (*InterestService)(nil)
)
