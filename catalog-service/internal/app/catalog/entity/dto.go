package entity

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=200"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Position    *int   `json:"position" validate:"omitempty,min=0"`
	IsVisible   *bool  `json:"isVisible"`
}

type CreateStoneRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=200"`
	SKU        string `json:"sku" validate:"omitempty,max=64"`
	CategoryID string `json:"categoryId" validate:"omitempty,mongodb"`

	Attributes

	CaratTypicalPerPiece *float64   `json:"caratTypicalPerPiece" validate:"omitempty,gt=0"`
	Dimensions           string     `json:"dimensions" validate:"omitempty,max=200"`
	Description          string     `json:"description" validate:"omitempty,max=5000"`
	Images               []Image    `json:"images" validate:"omitempty,max=50,dive"`
	PublishedAt          *time.Time `json:"publishedAt"`
}

type CreateItemRequest struct {
	Type       ItemType `json:"type" validate:"required,oneof=LOT SINGLE"`
	Code       string   `json:"code" validate:"required,min=1,max=64"`
	StoneID    string   `json:"stoneId" validate:"required,mongodb"`
	CategoryID string   `json:"categoryId" validate:"omitempty,mongodb"`

	Attributes

	PieceCount   *int          `json:"pieceCount" validate:"omitempty,min=1"`
	CaratTotal   *float64      `json:"caratTotal" validate:"omitempty,gt=0"`
	CaratSingle  *float64      `json:"caratSingle" validate:"omitempty,gt=0"`
	Location     string        `json:"location" validate:"omitempty,max=200"`
	Availability Availability  `json:"availability" validate:"omitempty,oneof=available reserved sold"`
	Featured     *bool         `json:"featured"`
	Images       []Image       `json:"images" validate:"omitempty,max=50,dive"`
	Certificates []Certificate `json:"certificates" validate:"omitempty,max=20,dive"`
	PublishedAt  *time.Time    `json:"publishedAt"`
}

// ListItemsQuery - фильтры и пагинация GET /items
type ListItemsQuery struct {
	Type         string `form:"type" validate:"omitempty,oneof=LOT SINGLE"`
	Species      string `form:"species" validate:"omitempty,max=100"`
	Shape        string `form:"shape" validate:"omitempty,max=100"`
	Availability string `form:"availability" validate:"omitempty,oneof=available reserved sold"`
	Page         *int   `form:"page" validate:"omitempty,min=1"`
	Limit        *int   `form:"limit" validate:"omitempty,min=1,max=60"`
}

// ListStonesQuery - фильтры и пагинация GET /stones
type ListStonesQuery struct {
	Species    string `form:"species" validate:"omitempty,max=100"`
	Shape      string `form:"shape" validate:"omitempty,max=100"`
	CategoryID string `form:"categoryId" validate:"omitempty,mongodb"`
	Q          string `form:"q" validate:"omitempty,max=200"`
	Page       *int   `form:"page" validate:"omitempty,min=1"`
	Limit      *int   `form:"limit" validate:"omitempty,min=1,max=60"`
}

// FieldIssue - ошибка валидации конкретного поля
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldIssue `json:"details,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type HealthResponse struct {
	OK bool      `json:"ok"`
	TS time.Time `json:"ts"`
}

// ReadinessResponse - состояние зависимостей сервиса
type ReadinessResponse struct {
	OK     bool              `json:"ok"`
	TS     time.Time         `json:"ts"`
	Checks map[string]string `json:"checks"`
}

type UserResponse struct {
	User User `json:"user"`
}

type CategoryResponse struct {
	Category Category `json:"category"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type StoneResponse struct {
	Stone Stone `json:"stone"`
}

type StoneListResponse struct {
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Total  int64   `json:"total"`
	Stones []Stone `json:"stones"`
}

type ItemResponse struct {
	Item InventoryItem `json:"item"`
}

type ItemListResponse struct {
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
	Items []InventoryItem `json:"items"`
}

// InterestResponse - ответ на отметку интереса; ссылка пустая, если телефон не настроен
type InterestResponse struct {
	OK          bool   `json:"ok"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}
