package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemType - тип складской позиции
type ItemType string

const (
	ItemTypeLot    ItemType = "LOT"
	ItemTypeSingle ItemType = "SINGLE"
)

// Availability - статус продажи позиции
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityReserved  Availability = "reserved"
	AvailabilitySold      Availability = "sold"
)

// RoleAdmin - единственная роль пользователей каталога
const RoleAdmin = "ADMIN"

// Category - раздел витрины
type Category struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Position    int                `json:"position" bson:"position"`
	IsVisible   bool               `json:"isVisible" bson:"is_visible"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Attributes - описательные характеристики камня.
// Nil означает "не задано": позиция получает значение из камня при создании.
type Attributes struct {
	Species   *string  `json:"species,omitempty" bson:"species,omitempty" validate:"omitempty,min=1,max=100"`
	Shape     *string  `json:"shape,omitempty" bson:"shape,omitempty" validate:"omitempty,min=1,max=100"`
	Color     *string  `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,min=1,max=100"`
	Clarity   *string  `json:"clarity,omitempty" bson:"clarity,omitempty" validate:"omitempty,min=1,max=100"`
	Cut       *string  `json:"cut,omitempty" bson:"cut,omitempty" validate:"omitempty,min=1,max=100"`
	Treatment *string  `json:"treatment,omitempty" bson:"treatment,omitempty" validate:"omitempty,min=1,max=200"`
	Origin    *string  `json:"origin,omitempty" bson:"origin,omitempty" validate:"omitempty,min=1,max=100"`
	Tags      []string `json:"tags" bson:"tags" validate:"omitempty,max=30,dive,min=1,max=50"`
}

type Image struct {
	URL         string `json:"url" bson:"url" validate:"required,url"`
	Alt         string `json:"alt,omitempty" bson:"alt,omitempty"`
	Position    *int   `json:"position,omitempty" bson:"position,omitempty" validate:"omitempty,min=0"`
	ThumbURL    string `json:"thumbUrl,omitempty" bson:"thumb_url,omitempty" validate:"omitempty,url"`
	Watermarked *bool  `json:"watermarked,omitempty" bson:"watermarked,omitempty"`
}

type Certificate struct {
	Lab       string     `json:"lab,omitempty" bson:"lab,omitempty"`
	Number    string     `json:"number,omitempty" bson:"number,omitempty"`
	IssueDate *time.Time `json:"issueDate,omitempty" bson:"issue_date,omitempty"`
	PDFURL    string     `json:"pdfUrl,omitempty" bson:"pdf_url,omitempty" validate:"omitempty,url"`
}

// Stone - шаблон камня, на который ссылаются складские позиции
type Stone struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title      string              `json:"title" bson:"title"`
	Slug       string              `json:"slug" bson:"slug"`
	SKU        string              `json:"sku,omitempty" bson:"sku,omitempty"`
	CategoryID *primitive.ObjectID `json:"categoryId,omitempty" bson:"category_id,omitempty"`

	Attributes `bson:",inline"`

	CaratTypicalPerPiece *float64   `json:"caratTypicalPerPiece,omitempty" bson:"carat_typical_per_piece,omitempty"`
	Dimensions           string     `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Description          string     `json:"description,omitempty" bson:"description,omitempty"`
	Images               []Image    `json:"images" bson:"images"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updated_at"`
}

// InventoryItem - продаваемая партия (LOT) или отдельный камень (SINGLE).
// Характеристики копируются из камня один раз при создании.
type InventoryItem struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Type       ItemType            `json:"type" bson:"type"`
	Code       string              `json:"code" bson:"code"`
	StoneID    primitive.ObjectID  `json:"stoneId" bson:"stone_id"`
	CategoryID *primitive.ObjectID `json:"categoryId,omitempty" bson:"category_id,omitempty"`

	Attributes `bson:",inline"`

	PieceCount   *int          `json:"pieceCount,omitempty" bson:"piece_count,omitempty"`
	CaratTotal   *float64      `json:"caratTotal,omitempty" bson:"carat_total,omitempty"`
	CaratSingle  *float64      `json:"caratSingle,omitempty" bson:"carat_single,omitempty"`
	Location     string        `json:"location,omitempty" bson:"location,omitempty"`
	Availability Availability  `json:"availability" bson:"availability"`
	Featured     bool          `json:"featured" bson:"featured"`
	Images       []Image       `json:"images" bson:"images"`
	Certificates []Certificate `json:"certificates" bson:"certificates"`
	PublishedAt  *time.Time    `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}

// InterestEvent - запись о проявленном интересе к позиции (только добавление)
type InterestEvent struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ItemID    primitive.ObjectID `json:"itemId" bson:"item_id"`
	TS        time.Time          `json:"ts" bson:"ts"`
	Referer   string             `json:"referer,omitempty" bson:"referer,omitempty"`
	UserAgent string             `json:"userAgent,omitempty" bson:"user_agent,omitempty"`
}

// User - администратор каталога
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         string             `json:"role" bson:"role"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Identity - субъект проверенной сессии
type Identity struct {
	SubjectID string
	Role      string
}

// CatalogEvent - событие изменения каталога для Kafka
type CatalogEvent struct {
	EventType string    `json:"event_type"` // CATEGORY_CREATED, STONE_CREATED, ITEM_CREATED
	EntityID  string    `json:"entity_id"`
	Key       string    `json:"key"` // slug или code
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventCategoryCreated = "CATEGORY_CREATED"
	EventStoneCreated    = "STONE_CREATED"
	EventItemCreated     = "ITEM_CREATED"
)

// ItemInterest - агрегированный интерес к одной позиции
type ItemInterest struct {
	ItemID   primitive.ObjectID `json:"itemId" bson:"_id"`
	Count    int64              `json:"count" bson:"count"`
	LastSeen time.Time          `json:"lastSeen" bson:"last_seen"`
}

// InterestSummary - сводка интереса за окно времени, кешируется в Redis
type InterestSummary struct {
	Since       time.Time      `json:"since"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Items       []ItemInterest `json:"items"`
}
