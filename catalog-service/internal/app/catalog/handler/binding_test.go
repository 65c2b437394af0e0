package handler

import (
	"errors"
	"testing"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"CreateItemRequest.code", "code"},
		{"CreateItemRequest.Attributes.species", "species"},
		{"CreateItemRequest.Attributes.tags[2]", "tags[2]"},
		{"CreateStoneRequest.images[0].url", "images[0].url"},
		{"code", "code"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, fieldPath(tt.namespace))
		})
	}
}

func TestBinder_Validate_Messages(t *testing.T) {
	// Arrange
	binder := NewBinder()
	req := &entity.CreateCategoryRequest{Name: "", Position: intPtr(-1)}

	// Act
	err := binder.Validate(req)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []entity.FieldIssue{
		{Path: "name", Message: "is required"},
		{Path: "position", Message: "must be at least 0"},
	}, validationErr.Issues)
}

func TestBinder_Validate_Valid(t *testing.T) {
	// Arrange
	binder := NewBinder()
	req := &entity.ListItemsQuery{Type: "SINGLE", Page: intPtr(3), Limit: intPtr(60)}

	// Act
	err := binder.Validate(req)

	// Assert
	assert.NoError(t, err)
}

func TestBinder_Validate_QueryNames(t *testing.T) {
	// Arrange
	binder := NewBinder()
	req := &entity.ListStonesQuery{CategoryID: "xyz"}

	// Act
	err := binder.Validate(req)

	// Assert
	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Issues, 1)
	assert.Equal(t, "categoryId", validationErr.Issues[0].Path)
	assert.Equal(t, "must be a valid id", validationErr.Issues[0].Message)
}
