package util

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify переводит текст в URL-безопасный идентификатор:
// нижний регистр, без диакритики, один "-" между словами, без краевых дефисов.
// slug.Make сохраняет "_", поэтому подчеркивания заменяются заранее.
func Slugify(text string) string {
	return slug.Make(strings.ReplaceAll(text, "_", " "))
}
