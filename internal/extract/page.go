package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta holds the Open Graph fields scraped from a single article page.
type PageMeta struct {
	Title       string
	Description string
	ImageURL    string
	PublishedAt *time.Time
}

// OpenGraphMeta scrapes title/description/image/published-time from an HTML
// document. Meta tags are matched by property or name attribute,
// case-insensitively; the <title> tag is the fallback for the title, and
// "Untitled" the final default. Parsing failures degrade to the defaults
// rather than erroring.
func OpenGraphMeta(htmlBody string) PageMeta {
	meta := PageMeta{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		meta.Title = "Untitled"
		return meta
	}

	lookup := map[string]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}
		if prop, ok := s.Attr("property"); ok {
			key := strings.ToLower(strings.TrimSpace(prop))
			if _, seen := lookup[key]; !seen {
				lookup[key] = content
			}
		}
		if name, ok := s.Attr("name"); ok {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, seen := lookup[key]; !seen {
				lookup[key] = content
			}
		}
	})

	meta.Title = strings.TrimSpace(firstOf(lookup, "og:title", "title"))
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Title == "" {
		meta.Title = "Untitled"
	}

	meta.Description = strings.TrimSpace(firstOf(lookup, "og:description", "description"))
	meta.ImageURL = firstOf(lookup, "og:image", "image")
	meta.PublishedAt = ParseMetaTime(firstOf(lookup, "article:published_time"))

	return meta
}

func firstOf(lookup map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
