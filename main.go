// Vnscrape collects the article list of a VnExpress section page into a CSV
// file by driving a real Chrome window.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"vnscrape/archive"
	"vnscrape/browser"
	"vnscrape/config"
	"vnscrape/export"
	"vnscrape/extract"
	"vnscrape/render"
	"vnscrape/scraper"
)

func main() {
	configPath := ""
	initConfig := false
	history := false
	verbose := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-c", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "error: %s needs a path\n", arg)
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case "--init-config":
			initConfig = true
		case "--history":
			history = true
		case "-v", "--verbose":
			verbose = true
		case "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "error: unknown argument %q\n\n", arg)
			printUsage()
			os.Exit(2)
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if history {
		err = runHistory(ctx, cfg)
	} else {
		err = run(ctx, cfg, verbose)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Vnscrape - VnExpress section scraper

Usage: vnscrape [options]

Options:
  -c, --config PATH   Load configuration from PATH (.toml, .yaml or .yml)
  --init-config       Output default config (redirect to ~/.config/vnscrape/config.toml)
  --history           List recent runs from the archive
  -v, --verbose       Show browser protocol logs
  -h, --help          Show this help

Examples:
  vnscrape                        Scrape https://vnexpress.net/thoi-su into vnexpress_articles.csv
  vnscrape -c kinh-doanh.toml     Scrape with a different config
  vnscrape --init-config > ~/.config/vnscrape/config.toml

Configuration:
  Config file: ~/.config/vnscrape/config.toml (optional)`)
}

// run performs one scrape. Only a failed browser launch or bad settings are
// returned; everything after launch is reported and the browser is always
// closed, after the operator confirms.
func run(ctx context.Context, cfg *config.Config, verbose bool) (err error) {
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	fmt.Println("Đang khởi tạo trình duyệt Chrome...")
	sess, err := browser.Launch(ctx, browser.Options{
		ChromePath: cfg.Browser.ChromePath,
		UserAgent:  cfg.Browser.UserAgent,
		Language:   cfg.Browser.Language,
		Headless:   cfg.Browser.Headless,
		Debug:      verbose,
	})
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\nLỗi: %v\n", r)
			err = nil
		}
		// Interrupted runs close straight away.
		if ctx.Err() == nil {
			if err := render.WaitForKey(os.Stdin, os.Stdout, "\nNhấn Enter để đóng trình duyệt..."); err != nil {
				log.Printf("waiting for confirmation: %v", err)
			}
		}
		sess.Close()
	}()

	s := scraper.New(scraper.Options{
		Load: scraper.LoadOptions{
			URL:         cfg.Target.URL,
			Landmark:    cfg.Target.Landmark,
			WaitTimeout: cfg.WaitTimeout(),
			ScrollTimes: cfg.Scroll.Times,
			ScrollDelay: cfg.ScrollDelay(),
		},
		Selectors: extract.Selectors{
			Articles: cfg.Selectors.Articles,
			Title:    cfg.Selectors.Title,
			Time:     cfg.Selectors.Time,
		},
		OutputPath: cfg.Output.Path,
		Format:     format,
		FeedURL:    cfg.Feed.URL,
		UserAgent:  cfg.Browser.UserAgent,
	}, os.Stdout)

	if cfg.Archive.DSN != "" {
		store, err := archive.Open(cfg.Archive.Driver, cfg.Archive.DSN)
		if err != nil {
			log.Printf("archive disabled: %v", err)
		} else {
			defer store.Close()
			s.WithArchive(store)
		}
	}

	if _, err := s.Run(ctx, sess); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nĐã dừng theo yêu cầu")
		} else {
			fmt.Printf("\nLỗi: %v\n", err)
		}
	}
	return nil
}

// runHistory prints the most recent archived runs.
func runHistory(ctx context.Context, cfg *config.Config) error {
	if cfg.Archive.DSN == "" {
		return errors.New("no archive configured (set [archive] dsn)")
	}
	store, err := archive.Open(cfg.Archive.Driver, cfg.Archive.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, 20)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("Chưa có lần chạy nào")
		return nil
	}

	tbl := render.NewTable("Thời điểm", "Trang", "Thành công", "Bỏ qua", "File", "ID")
	tbl.SetAlignment(2, render.AlignRight)
	tbl.SetAlignment(3, render.AlignRight)
	tbl.MaxCellWidth = max(16, render.TerminalWidth(os.Stdout, 160)/5)
	for _, r := range runs {
		tbl.AddRow(
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.URL,
			strconv.Itoa(r.Accepted),
			strconv.Itoa(r.Skipped),
			r.Output,
			r.ID.String()[:8],
		)
	}
	fmt.Println(tbl.String())
	return nil
}
