// Package education indexes the education page and answers keyword searches
// over its articles.
package education

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	previewLen      = 500
	placeholderText = "currently being developed"
	defaultBadge    = "General"
)

// Article is one indexed education article.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Badge       string   `json:"badge"`
	Preview     string   `json:"preview"`
	Keywords    []string `json:"keywords,omitempty"`
	fullContent string
}

// Index is an immutable, ordered set of articles.
type Index struct {
	articles []Article
}

// Articles returns a copy of the indexed articles in page order.
func (ix *Index) Articles() []Article {
	if ix == nil {
		return nil
	}
	return append([]Article(nil), ix.articles...)
}

// Len reports the number of indexed articles.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.articles)
}

// Parse builds an index from the education page markup. Articles without
// content or still marked as placeholders are skipped. Topic links in the
// section navigation add their text and section title as keywords.
func Parse(r io.Reader) (*Index, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse education page: %w", err)
	}
	ix := &Index{}
	byID := make(map[string]int)
	doc.Find(".education-article").Each(func(_ int, s *goquery.Selection) {
		content := s.Find(".article-content").First().Text()
		if content == "" || strings.Contains(content, placeholderText) {
			return
		}
		id, _ := s.Attr("id")
		badge := defaultBadge
		if b := s.Find(".badge").First(); b.Length() > 0 {
			badge = b.Text()
		}
		byID[id] = len(ix.articles)
		ix.articles = append(ix.articles, Article{
			ID:          id,
			Title:       s.Find("h2").First().Text(),
			Badge:       badge,
			Preview:     truncateRunes(content, previewLen),
			fullContent: strings.ToLower(content),
		})
	})

	doc.Find(".education-section").Each(func(_ int, section *goquery.Selection) {
		sectionTitle := strings.ToLower(section.Find("h2").First().Text())
		section.Find(".topic-item a").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			i, ok := byID[strings.TrimPrefix(href, "#")]
			if !ok || !strings.HasPrefix(href, "#") {
				return
			}
			a := &ix.articles[i]
			a.Keywords = append(a.Keywords, strings.ToLower(link.Text()), sectionTitle)
		})
	})
	return ix, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
