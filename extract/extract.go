// Package extract pulls article records out of a rendered listing page.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"vnscrape/article"
)

// Selectors lists the candidate CSS selectors used to find cards and the
// fields inside them. Title and Time are tried in order; the first selector
// that matches inside a card wins.
type Selectors struct {
	Articles []string
	Title    []string
	Time     []string
}

// DefaultSelectors matches the VnExpress section listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Articles: []string{".item-news", ".width_common article"},
		Title:    []string{"h3.title-news a", "h2.title-news a", "p.title-news a"},
		Time:     []string{".time-public", ".time", ".date"},
	}
}

// Outcome is the per-card result, kept so callers can report progress.
type Outcome struct {
	Index    int // 1-based position among matched cards
	Record   article.Record
	Accepted bool
	Err      error // why the card could not be read, if it could not
}

// Result contains everything extracted from one page snapshot.
type Result struct {
	Found      int
	Collection *article.Collection
	Outcomes   []Outcome
}

// Extract parses the page HTML and extracts one candidate per matched card.
// baseURL resolves relative links; it may be empty.
func Extract(htmlContent, baseURL string, sel Selectors) (*Result, error) {
	node, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	doc := goquery.NewDocumentFromNode(node)

	var base *url.URL
	if baseURL != "" {
		base, _ = url.Parse(baseURL)
	}

	result := &Result{Collection: article.NewCollection()}
	if len(sel.Articles) == 0 {
		return result, nil
	}

	// A union selector returns each element once, in document order.
	cards := doc.Find(strings.Join(sel.Articles, ", "))
	result.Found = cards.Length()

	cards.Each(func(i int, s *goquery.Selection) {
		rec, err := extractCard(s, sel, base)
		accepted := result.Collection.Add(rec, err == nil)
		result.Outcomes = append(result.Outcomes, Outcome{
			Index:    i + 1,
			Record:   rec,
			Accepted: accepted,
			Err:      err,
		})
	})

	return result, nil
}

func extractCard(s *goquery.Selection, sel Selectors, base *url.URL) (article.Record, error) {
	var rec article.Record

	titleSel := firstMatch(s, sel.Title)
	if titleSel == nil {
		return rec, fmt.Errorf("no title element")
	}
	rec.Title = cleanText(titleSel.Text())

	href, exists := titleSel.Attr("href")
	if !exists {
		return rec, fmt.Errorf("title element has no href")
	}
	link, err := resolve(base, href)
	if err != nil {
		return rec, fmt.Errorf("bad href %q: %w", href, err)
	}
	rec.Link = link

	rec.PublishTime = article.NoTime
	if timeSel := firstMatch(s, sel.Time); timeSel != nil {
		if t := cleanText(timeSel.Text()); t != "" {
			rec.PublishTime = t
		} else if dt, ok := timeSel.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			rec.PublishTime = strings.TrimSpace(dt)
		}
	}

	return rec, nil
}

// firstMatch returns the first element matched by the highest priority
// selector that matches anything inside s.
func firstMatch(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		found := s.Find(selector)
		if found.Length() > 0 {
			return found.First()
		}
	}
	return nil
}

func resolve(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String(), nil
}

// cleanText trims and collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
