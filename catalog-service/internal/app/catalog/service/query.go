package service

import (
	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
)

// Границы пагинации списков; верхний предел limit защищает от выкачивания каталога
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 60
)

// resolvePage применяет значения по умолчанию и проверяет границы page/limit
func resolvePage(page, limit *int) (int, int, repository.Page, error) {
	p, l := DefaultPage, DefaultLimit
	if page != nil {
		p = *page
	}
	if limit != nil {
		l = *limit
	}

	var issues []entity.FieldIssue
	if p < 1 {
		issues = append(issues, entity.FieldIssue{Path: "page", Message: "must be at least 1"})
	}
	if l < 1 || l > MaxLimit {
		issues = append(issues, entity.FieldIssue{Path: "limit", Message: "must be between 1 and 60"})
	}
	if len(issues) > 0 {
		return 0, 0, repository.Page{}, NewValidationError(issues...)
	}

	return p, l, repository.Page{Skip: int64(p-1) * int64(l), Limit: int64(l)}, nil
}
