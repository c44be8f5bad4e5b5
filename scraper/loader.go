package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Page is the part of a browser tab the scraper drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string) error
	ScrollToBottom(ctx context.Context) error
	Snapshot(ctx context.Context) (html, finalURL string, err error)
}

// LoadOptions controls how the listing page is brought into a scrapeable
// state.
type LoadOptions struct {
	URL         string
	Landmark    string        // selector that marks the initial render
	WaitTimeout time.Duration // give up waiting for Landmark after this
	ScrollTimes int
	ScrollDelay time.Duration // pause after each successful scroll
}

// Load navigates to the page, waits for the landmark and scrolls to trigger
// lazy loading. Only navigation failure and cancellation are returned as
// errors; a slow page or a failing scroll step is logged and skipped.
func Load(ctx context.Context, page Page, o LoadOptions, out io.Writer) error {
	fmt.Fprintf(out, "\nĐang truy cập %s...\n", o.URL)
	if err := page.Navigate(ctx, o.URL); err != nil {
		return fmt.Errorf("navigating to %s: %w", o.URL, err)
	}

	fmt.Fprintln(out, "\nĐang đợi trang tải...")
	if o.Landmark != "" {
		wctx, cancel := context.WithTimeout(ctx, o.WaitTimeout)
		err := page.WaitReady(wctx, o.Landmark)
		cancel()
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			fmt.Fprintln(out, "Trang tải quá lâu! Đang thử tiếp tục...")
		default:
			fmt.Fprintf(out, "Lỗi khi đợi trang tải: %v. Đang thử tiếp tục...\n", err)
		}
	}

	fmt.Fprintln(out, "\nĐang tải thêm bài viết...")
	for i := 0; i < o.ScrollTimes; i++ {
		if err := page.ScrollToBottom(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Lỗi khi cuộn trang: %v\n", err)
			continue
		}
		if err := sleep(ctx, o.ScrollDelay); err != nil {
			return err
		}
		fmt.Fprintf(out, "Đã cuộn trang lần %d/%d\n", i+1, o.ScrollTimes)
	}

	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
