package service

import (
	"testing"

	"gemcatalog/catalog-service/internal/app/catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestResolvePage_Defaults(t *testing.T) {
	page, limit, window, err := resolvePage(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, limit)
	assert.Equal(t, repository.Page{Skip: 0, Limit: 12}, window)
}

func TestResolvePage_Offset(t *testing.T) {
	page, limit, window, err := resolvePage(intPtr(3), intPtr(20))

	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, repository.Page{Skip: 40, Limit: 20}, window)
}

func TestResolvePage_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		page  *int
		limit *int
		path  string
	}{
		{name: "page zero", page: intPtr(0), path: "page"},
		{name: "negative page", page: intPtr(-2), path: "page"},
		{name: "limit zero", limit: intPtr(0), path: "limit"},
		{name: "limit above cap", limit: intPtr(61), path: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := resolvePage(tt.page, tt.limit)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.path, validationErr.Issues[0].Path)
		})
	}

	_, limit, _, err := resolvePage(nil, intPtr(60))
	require.NoError(t, err)
	assert.Equal(t, 60, limit)
}
