package education

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MinQueryLen is the shortest query that produces results.
const MinQueryLen = 2

const (
	excerptBefore = 100
	excerptAfter  = 200
)

// Result is one search hit, ready for display.
type Result struct {
	ID         string `json:"id"`
	Badge      string `json:"badge"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	TitleMatch bool   `json:"titleMatch"`
}

// Results is the response for one query.
type Results struct {
	Query string   `json:"query"`
	Count string   `json:"count"`
	Items []Result `json:"items"`
}

// Search matches the query case-insensitively against titles, content and
// keywords. Title matches come first; order is otherwise page order. Titles
// and excerpts are returned highlighted.
func (ix *Index) Search(query string) Results {
	out := Results{Query: query, Items: []Result{}}
	if len([]rune(query)) < MinQueryLen || ix == nil {
		return out
	}
	lower := strings.ToLower(query)
	for _, a := range ix.articles {
		titleMatch := strings.Contains(strings.ToLower(a.Title), lower)
		if !titleMatch && !strings.Contains(a.fullContent, lower) && !keywordMatch(a.Keywords, lower) {
			continue
		}
		out.Items = append(out.Items, Result{
			ID:         a.ID,
			Badge:      a.Badge,
			Title:      Highlight(a.Title, query),
			Excerpt:    Highlight(excerpt(a, lower), query),
			TitleMatch: titleMatch,
		})
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].TitleMatch && !out.Items[j].TitleMatch
	})
	out.Count = CountText(len(out.Items))
	return out
}

func keywordMatch(keywords []string, lower string) bool {
	for _, k := range keywords {
		if strings.Contains(k, lower) {
			return true
		}
	}
	return false
}

// excerpt is a window around the first content match, or the preview when
// only the title or a keyword matched.
func excerpt(a Article, lower string) string {
	pos := strings.Index(a.fullContent, lower)
	if pos < 0 {
		return a.Preview
	}
	content := []rune(a.fullContent)
	at := len([]rune(a.fullContent[:pos]))
	start := max(0, at-excerptBefore)
	end := min(len(content), at+excerptAfter)
	return "..." + string(content[start:end]) + "..."
}

// Highlight wraps every case-insensitive occurrence of query in <mark> tags.
func Highlight(text, query string) string {
	if query == "" {
		return text
	}
	re := regexp.MustCompile("(?i)(" + regexp.QuoteMeta(query) + ")")
	return re.ReplaceAllString(text, "<mark>$1</mark>")
}

// CountText renders "1 result" or "N results".
func CountText(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}
