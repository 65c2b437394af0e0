package util

import (
	"fmt"
	"net/url"
)

// WhatsAppLink строит ссылку wa.me с текстом запроса о позиции.
// Пустой телефон означает, что канал не настроен.
func WhatsAppLink(phone, publicBaseURL, code string) string {
	if phone == "" {
		return ""
	}
	text := fmt.Sprintf("Hello! I'm interested in item %s: %s/items/%s", code, publicBaseURL, url.PathEscape(code))
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}
