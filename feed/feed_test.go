package feed

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnscrape/article"
)

const sectionFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Thời sự - VnExpress RSS</title>
	<link>https://vnexpress.net/thoi-su</link>
	<item>
		<title>  Hà Nội
		mở thêm tuyến buýt </title>
		<link>https://vnexpress.net/ha-noi-mo-them-tuyen-buyt-1.html</link>
		<pubDate>Thu, 02 Jan 2025 08:00:00 +0700</pubDate>
	</item>
	<item>
		<title>Không có ngày</title>
		<link>https://vnexpress.net/khong-co-ngay-2.html</link>
	</item>
</channel>
</rss>`

// TestParse_RSS verifies item mapping from an RSS 2.0 document
func TestParse_RSS(t *testing.T) {
	records, err := Parse(strings.NewReader(sectionFeed))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Hà Nội mở thêm tuyến buýt", records[0].Title)
	assert.Equal(t, "https://vnexpress.net/ha-noi-mo-them-tuyen-buyt-1.html", records[0].Link)
	assert.Equal(t, "Thu, 02 Jan 2025 08:00:00 +0700", records[0].PublishTime)
	assert.Equal(t, article.NoTime, records[1].PublishTime, "missing date should use the placeholder")
}

// TestParse_Invalid verifies parse errors surface
func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a feed"))
	assert.Error(t, err)
}

// TestRecords_UpdatedFallback verifies Atom-style updated dates are used
func TestRecords_UpdatedFallback(t *testing.T) {
	f := &gofeed.Feed{Items: []*gofeed.Item{
		{Title: "A", Link: " https://vnexpress.net/a.html ", Updated: "2025-01-02T08:00:00+07:00"},
		{Title: "", Link: "https://vnexpress.net/b.html"},
	}}

	records := Records(f)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-01-02T08:00:00+07:00", records[0].PublishTime)
	assert.Equal(t, "https://vnexpress.net/a.html", records[0].Link)
	assert.False(t, records[1].Valid(), "items without a title stay invalid for the collection to reject")
}

// TestRecords_Nil verifies a nil feed yields nothing
func TestRecords_Nil(t *testing.T) {
	assert.Nil(t, Records(nil))
}
