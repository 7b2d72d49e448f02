package client

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const maxDescriptionLength = 200

// describeBody turns an error response body into a short human readable message.
// JSON bodies yield their message field, HTML error pages (typically from a proxy
// in front of the API) their title or heading, anything else its raw text.
func describeBody(contentType, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
		return truncate(body)
	}

	if strings.Contains(contentType, "html") || strings.HasPrefix(body, "<") {
		if text := describeHTML(body); text != "" {
			return text
		}
	}

	return truncate(body)
}

func describeHTML(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Debugf("Failed to parse HTML error body: %v", err)
		return ""
	}

	for _, selector := range []string{"title", "h1", "body"} {
		if text := collapseSpaces(doc.Find(selector).First().Text()); text != "" {
			return truncate(text)
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate keeps at most maxDescriptionLength runes.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxDescriptionLength {
		return s
	}
	return string([]rune(s)[:maxDescriptionLength]) + "..."
}
