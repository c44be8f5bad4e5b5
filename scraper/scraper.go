// Package scraper runs the listing-page pipeline: load, extract, persist.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"vnscrape/archive"
	"vnscrape/article"
	"vnscrape/export"
	"vnscrape/extract"
	"vnscrape/feed"
	"vnscrape/render"
)

// Options configures a run.
type Options struct {
	Load       LoadOptions
	Selectors  extract.Selectors
	OutputPath string
	Format     export.Format
	FeedURL    string // RSS fallback when the page yields nothing; empty disables
	UserAgent  string // sent with the feed request
}

// Archiver stores finished runs.
type Archiver interface {
	SaveRun(ctx context.Context, run archive.Run, records []article.Record) error
}

// Summary reports what a run did.
type Summary struct {
	Found    int // candidates examined (cards, plus feed items if the fallback ran)
	Accepted int
	Skipped  int
	Records  []article.Record
	FromFeed bool
	Output   string // file written, empty if nothing was saved
}

// Scraper runs the pipeline against a page.
type Scraper struct {
	opts    Options
	out     io.Writer
	archive Archiver
}

// New creates a scraper that writes its progress log to out.
func New(opts Options, out io.Writer) *Scraper {
	if opts.OutputPath == "" {
		opts.OutputPath = export.DefaultFilename
	}
	if opts.Format == "" {
		opts.Format = export.FormatCSV
	}
	return &Scraper{opts: opts, out: out}
}

// WithArchive records every run in a.
func (s *Scraper) WithArchive(a Archiver) *Scraper {
	s.archive = a
	return s
}

// Run loads the page, extracts and saves its articles. Errors are returned
// only when the page could not be loaded or captured; persistence problems
// are reported in the log and the run still completes.
func (s *Scraper) Run(ctx context.Context, page Page) (*Summary, error) {
	run := archive.NewRun(s.opts.Load.URL)

	if err := Load(ctx, page, s.opts.Load, s.out); err != nil {
		return nil, err
	}

	html, finalURL, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if finalURL == "" {
		finalURL = s.opts.Load.URL
	}

	result, err := extract.Extract(html, finalURL, s.opts.Selectors)
	if err != nil {
		return nil, err
	}
	s.logOutcomes(result)

	summary := &Summary{Found: result.Found}
	coll := result.Collection

	if coll.Accepted() == 0 && s.opts.FeedURL != "" {
		n := s.fallbackToFeed(ctx, coll)
		summary.Found += n
		summary.FromFeed = coll.Accepted() > 0
	}

	summary.Accepted = coll.Accepted()
	summary.Skipped = coll.Skipped()
	summary.Records = coll.Records()
	s.logSummary(summary)

	if len(summary.Records) > 0 {
		if err := export.Write(s.opts.OutputPath, summary.Records, s.opts.Format); err != nil {
			fmt.Fprintf(s.out, "\nLỗi khi lưu file CSV: %v\n", err)
		} else {
			summary.Output = s.opts.OutputPath
			fmt.Fprintf(s.out, "\nĐã lưu thành công %d bài viết vào file %s\n", len(summary.Records), s.opts.OutputPath)
		}
	} else {
		fmt.Fprintln(s.out, "\nKhông có dữ liệu để lưu")
	}

	if s.archive != nil {
		run.FinishedAt = time.Now()
		run.Found = summary.Found
		run.Accepted = summary.Accepted
		run.Skipped = summary.Skipped
		run.Output = summary.Output
		if err := s.archive.SaveRun(ctx, run, summary.Records); err != nil {
			log.Printf("archiving run %s: %v", run.ID, err)
		}
	}

	return summary, nil
}

// fallbackToFeed offers the feed's items to coll and returns how many were
// offered.
func (s *Scraper) fallbackToFeed(ctx context.Context, coll *article.Collection) int {
	fmt.Fprintf(s.out, "\nKhông lấy được bài viết từ trang, đang thử RSS %s...\n", s.opts.FeedURL)
	records, err := feed.Fetch(ctx, s.opts.FeedURL, s.opts.UserAgent)
	if err != nil {
		fmt.Fprintf(s.out, "Lỗi khi đọc RSS: %v\n", err)
		return 0
	}
	for _, r := range records {
		coll.Add(r, true)
	}
	fmt.Fprintf(s.out, "Đã đọc %d mục từ RSS\n", len(records))
	return len(records)
}

func (s *Scraper) logOutcomes(result *extract.Result) {
	fmt.Fprintf(s.out, "\nĐã tìm thấy %d bài viết\n", result.Found)
	fmt.Fprintln(s.out, "\nBắt đầu thu thập dữ liệu...")

	for _, o := range result.Outcomes {
		fmt.Fprintf(s.out, "\nĐang xử lý bài %d/%d... ", o.Index, result.Found)
		if !o.Accepted {
			fmt.Fprintln(s.out, "✗ Bỏ qua")
			continue
		}
		fmt.Fprintln(s.out, "✓ Thành công")
		fmt.Fprintf(s.out, "Tiêu đề: %s\n", o.Record.Title)
		fmt.Fprintf(s.out, "Thời gian: %s\n", o.Record.PublishTime)
		fmt.Fprintf(s.out, "Link: %s\n", o.Record.Link)
		fmt.Fprintln(s.out, strings.Repeat("-", 60))
	}
}

func (s *Scraper) logSummary(sum *Summary) {
	tbl := render.NewTable("Thống kê", "Số lượng")
	tbl.SetAlignment(1, render.AlignRight)
	tbl.AddRow("Tổng số bài viết đã quét", strconv.Itoa(sum.Found))
	tbl.AddRow("Thành công", strconv.Itoa(sum.Accepted))
	tbl.AddRow("Bỏ qua/Lỗi", strconv.Itoa(sum.Skipped))
	if sum.FromFeed {
		tbl.AddRow("Nguồn", "RSS")
	}

	fmt.Fprintln(s.out, "\n=== Thống kê ===")
	fmt.Fprintln(s.out, tbl.String())
}
