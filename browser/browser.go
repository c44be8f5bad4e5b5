// Package browser drives a Chrome instance over the DevTools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures the browser launch.
type Options struct {
	ChromePath string // Path to Chrome binary (empty = auto-detect)
	UserAgent  string // Empty keeps Chrome's own
	Language   string
	Headless   bool
	Debug      bool // Forward chromedp's own log output
}

// DefaultOptions returns the settings of a plain interactive run.
func DefaultOptions() Options {
	return Options{Language: "vi"}
}

// Session is a running browser with a single tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
}

// flags returns the command-line switches passed to Chrome.
func flags(o Options) map[string]interface{} {
	f := map[string]interface{}{
		"start-maximized":          true,
		"disable-notifications":    true,
		"disable-popup-blocking":   true,
		"disable-blink-features":   "AutomationControlled",
		"disable-infobars":         true,
		"disable-default-apps":     true,
		"disable-dev-shm-usage":    true,
		"no-service-autorun":       true,
		"password-store":           "basic",
		"use-mock-keychain":        true,
		"disable-component-update": true,
	}
	if o.Language != "" {
		f["lang"] = o.Language
	}
	if o.Headless {
		f["headless"] = "new"
	}
	return f
}

// acceptLanguage builds an Accept-Language header for the configured locale.
func acceptLanguage(lang string) string {
	switch lang {
	case "":
		return ""
	case "vi":
		return "vi-VN,vi;q=0.9,en-US;q=0.6,en;q=0.4"
	default:
		return lang + ",en;q=0.5"
	}
}

// Launch starts Chrome and opens a tab. The browser is started eagerly so a
// missing binary or a failed launch is reported here rather than on first use.
func Launch(ctx context.Context, o Options) (*Session, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
	}
	for name, value := range flags(o) {
		allocOpts = append(allocOpts, chromedp.Flag(name, value))
	}
	if o.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(o.UserAgent))
	}
	if o.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(o.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)

	ctxOpts := []chromedp.ContextOption{
		// chromedp reports unknown CDP events as errors; they are harmless.
		chromedp.WithErrorf(func(string, ...interface{}) {}),
	}
	if o.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(log.Printf))
	}
	tabCtx, cancel := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &Session{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel}

	setup := []chromedp.Action{
		// Inject stealth script before any page loads
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	}
	if al := acceptLanguage(o.Language); al != "" {
		setup = append(setup, network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept-Language": al,
		})))
	}
	if err := chromedp.Run(tabCtx, setup...); err != nil {
		s.Close()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	return s, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		// Cancel closes the tab and waits for the browser to exit.
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("closing browser: %v", err)
		}
		s.cancel()
		s.allocCancel()
	})
}

// run executes actions on the session tab, bounded by ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(tctx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads url in the tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// WaitReady blocks until an element matching selector exists in the DOM,
// or ctx is done.
func (s *Session) WaitReady(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

const scrollScript = `window.scrollTo(0, document.body.scrollHeight);`

// ScrollToBottom scrolls the viewport to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(scrollScript, nil))
}

// Snapshot returns the current document HTML and the URL after redirects.
func (s *Session) Snapshot(ctx context.Context) (string, string, error) {
	var html, finalURL string
	err := s.run(ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return "", "", fmt.Errorf("capturing page: %w", err)
	}
	return html, finalURL, nil
}
