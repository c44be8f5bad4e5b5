// Package article defines the scraped article record and the ordered,
// link-deduplicating collection the extractor accumulates into.
package article

import "strings"

// NoTime is substituted when a card carries no publish time.
const NoTime = "Không có thời gian"

// Record is one listed news item.
type Record struct {
	Title       string `yaml:"Tiêu đề"`
	PublishTime string `yaml:"Thời gian"`
	Link        string `yaml:"Link"`
}

// Valid reports whether both title and link are non-empty after trimming.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Link) != ""
}

// Collection accumulates records in discovery order, keeping at most one
// record per link. Every candidate offered is counted as either accepted or
// skipped.
type Collection struct {
	records  []Record
	seen     map[string]struct{}
	accepted int
	skipped  int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{seen: make(map[string]struct{})}
}

// Add offers a candidate. ok is false when extraction of the candidate
// failed; such candidates, invalid records and duplicate links are counted
// as skipped. Returns true if the record was accepted.
func (c *Collection) Add(rec Record, ok bool) bool {
	if !ok || !rec.Valid() {
		c.skipped++
		return false
	}
	if _, dup := c.seen[rec.Link]; dup {
		c.skipped++
		return false
	}
	c.seen[rec.Link] = struct{}{}
	c.records = append(c.records, rec)
	c.accepted++
	return true
}

// Records returns the accepted records in discovery order.
func (c *Collection) Records() []Record {
	return c.records
}

// Accepted returns the number of accepted candidates.
func (c *Collection) Accepted() int { return c.accepted }

// Skipped returns the number of rejected, failed or duplicate candidates.
func (c *Collection) Skipped() int { return c.skipped }

// Total returns the number of candidates offered so far.
func (c *Collection) Total() int { return c.accepted + c.skipped }

// Len returns the number of accepted records.
func (c *Collection) Len() int { return len(c.records) }
