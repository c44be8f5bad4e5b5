// Package feed reads a section's RSS feed as a fallback article source.
package feed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"vnscrape/article"
)

// Fetch downloads and parses the feed at url.
func Fetch(ctx context.Context, url, userAgent string) ([]article.Record, error) {
	fp := gofeed.NewParser()
	if userAgent != "" {
		fp.UserAgent = userAgent
	}
	f, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", url, err)
	}
	return Records(f), nil
}

// Parse reads a feed document from r.
func Parse(r io.Reader) ([]article.Record, error) {
	f, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return Records(f), nil
}

// Records converts feed items to article records in feed order. Items are
// not validated here; the caller's collection decides what to keep.
func Records(f *gofeed.Feed) []article.Record {
	if f == nil {
		return nil
	}
	return lo.Map(f.Items, func(item *gofeed.Item, _ int) article.Record {
		return toRecord(item)
	})
}

func toRecord(item *gofeed.Item) article.Record {
	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = strings.TrimSpace(item.Updated)
	}
	if published == "" {
		published = article.NoTime
	}
	return article.Record{
		Title:       strings.Join(strings.Fields(item.Title), " "),
		PublishTime: published,
		Link:        strings.TrimSpace(item.Link),
	}
}
