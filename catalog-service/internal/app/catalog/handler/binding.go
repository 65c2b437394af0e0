package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrPayloadTooLarge - тело запроса больше лимита BodyLimit
var ErrPayloadTooLarge = errors.New("payload too large")

// Binder разбирает тело и query запроса и проверяет их validate-тегами.
// Ошибки приводятся к *service.ValidationError с путями в JSON-именах полей.
type Binder struct {
	validator *validator.Validate
}

func NewBinder() *Binder {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})

	return &Binder{validator: v}
}

// BindJSON декодирует JSON-тело в dst и валидирует результат
func (b *Binder) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return decodeError(err)
	}
	return b.Validate(dst)
}

// BindQuery заполняет dst из query-параметров и валидирует результат
func (b *Binder) BindQuery(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return service.NewValidationError(entity.FieldIssue{Path: "query", Message: "invalid query parameters"})
	}
	return b.Validate(dst)
}

func (b *Binder) Validate(dst interface{}) error {
	err := b.validator.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	issues := make([]entity.FieldIssue, 0, len(validationErrors))
	for _, fe := range validationErrors {
		issues = append(issues, entity.FieldIssue{
			Path:    fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return service.NewValidationError(issues...)
}

func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ErrPayloadTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.NewValidationError(entity.FieldIssue{
			Path:    typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	}

	if errors.Is(err, io.EOF) {
		return service.NewValidationError(entity.FieldIssue{Path: "body", Message: "request body is required"})
	}

	return service.NewValidationError(entity.FieldIssue{Path: "body", Message: "invalid JSON"})
}

// fieldPath убирает имя корневой структуры и встроенных структур из пути
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	path := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "Attributes" {
			continue
		}
		path = append(path, segment)
	}
	return strings.Join(path, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "mongodb":
		return "must be a valid id"
	case "numeric":
		return "must contain digits only"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + sizeUnit(fe.Kind())
	case "max":
		return "must be at most " + fe.Param() + sizeUnit(fe.Kind())
	default:
		return "is invalid"
	}
}

func sizeUnit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
