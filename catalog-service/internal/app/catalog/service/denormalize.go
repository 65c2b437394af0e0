package service

import "gemcatalog/catalog-service/internal/app/catalog/entity"

// NeedsDenormalization - хотя бы одна описательная характеристика не задана
func NeedsDenormalization(attrs entity.Attributes) bool {
	return attrs.Species == nil ||
		attrs.Shape == nil ||
		attrs.Color == nil ||
		attrs.Clarity == nil ||
		attrs.Cut == nil ||
		attrs.Treatment == nil ||
		attrs.Origin == nil ||
		attrs.Tags == nil
}

// FillFromStone дополняет незаданные характеристики значениями камня.
// Заданные значения не перезаписываются; результат не разделяет память с камнем.
func FillFromStone(draft entity.Attributes, stone *entity.Stone) entity.Attributes {
	if stone == nil {
		return draft
	}

	filled := draft
	filled.Species = fillString(draft.Species, stone.Species)
	filled.Shape = fillString(draft.Shape, stone.Shape)
	filled.Color = fillString(draft.Color, stone.Color)
	filled.Clarity = fillString(draft.Clarity, stone.Clarity)
	filled.Cut = fillString(draft.Cut, stone.Cut)
	filled.Treatment = fillString(draft.Treatment, stone.Treatment)
	filled.Origin = fillString(draft.Origin, stone.Origin)
	if draft.Tags == nil && stone.Tags != nil {
		filled.Tags = append([]string{}, stone.Tags...)
	}
	return filled
}

func fillString(own, fallback *string) *string {
	if own != nil || fallback == nil {
		return own
	}
	v := *fallback
	return &v
}

// normalizeTags убирает повторы, сохраняя порядок первого вхождения
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
