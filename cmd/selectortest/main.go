// Command selectortest runs the article selectors against a saved page or a
// plain HTTP fetch, to check them after the site's markup changes.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"vnscrape/config"
	"vnscrape/extract"
	"vnscrape/render"
)

var (
	file       = flag.String("file", "", "Saved HTML page to test")
	pageURL    = flag.String("url", "", "Fetch this page over plain HTTP (no JavaScript)")
	base       = flag.String("base", "https://vnexpress.net/", "Base URL for relative links when using -file")
	configPath = flag.String("config", "", "Config file with selectors (default: built-in)")
	minItems   = flag.Int("min", 1, "Fail if fewer articles are accepted")
	verbose    = flag.Bool("v", false, "List every card, including skipped ones")
)

func main() {
	flag.Parse()

	if (*file == "") == (*pageURL == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		os.Exit(1)
	}

	html, baseURL, err := loadPage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	result, err := extract.Extract(html, baseURL, extract.Selectors{
		Articles: cfg.Selectors.Articles,
		Title:    cfg.Selectors.Title,
		Time:     cfg.Selectors.Time,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tbl := render.NewTable("#", "Tiêu đề", "Thời gian", "Link")
	tbl.SetAlignment(0, render.AlignRight)
	tbl.MaxCellWidth = max(20, render.TerminalWidth(os.Stdout, 160)/3-4)
	for _, o := range result.Outcomes {
		switch {
		case o.Accepted:
			tbl.AddRow(fmt.Sprint(o.Index), o.Record.Title, o.Record.PublishTime, o.Record.Link)
		case *verbose && o.Err != nil:
			tbl.AddRow(fmt.Sprint(o.Index), "✗ "+o.Err.Error(), "", "")
		case *verbose:
			tbl.AddRow(fmt.Sprint(o.Index), "✗ "+o.Record.Title, o.Record.PublishTime, o.Record.Link)
		}
	}
	fmt.Println(tbl.String())

	c := result.Collection
	fmt.Printf("\nCards: %d  Accepted: %d  Skipped: %d\n", result.Found, c.Accepted(), c.Skipped())

	if c.Accepted() < *minItems {
		fmt.Printf("FAIL: expected at least %d articles\n", *minItems)
		os.Exit(1)
	}
	fmt.Println("PASS")
}

// loadPage returns the page HTML and the URL to resolve links against.
func loadPage() (string, string, error) {
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return "", "", err
		}
		return string(data), *base, nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", *pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9")
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", *pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetching %s: %s", *pageURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), resp.Request.URL.String(), nil
}
