// Command distilld runs the scraping service: an HTTP API that searches
// DuckDuckGo and scrapes pages through a shared headless browser,
// reducing each page to its meaningful content.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akowalsk/distill/htmltomarkdown"
	distillhttp "github.com/akowalsk/distill/http"
	"github.com/akowalsk/distill/nethtml"
	"github.com/akowalsk/distill/rod"
	"github.com/akowalsk/distill/scrape"
	distillslog "github.com/akowalsk/distill/slog"
	"github.com/akowalsk/distill/sqlite"
	"github.com/akowalsk/distill/trafilatura"
	"github.com/alecthomas/kong"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr        string        `default:":5000" help:"HTTP listen address"`
	Cache       string        `default:"distill.db" help:"Path to the page cache database (\":memory:\" for ephemeral)"`
	NoCache     bool          `help:"Disable the page cache entirely"`
	RPS         float64       `name:"rps" default:"1.0" help:"Per-domain request rate limit"`
	Concurrency int           `short:"c" default:"5" help:"Concurrent fetch limit for batch scrapes"`
	Settle      time.Duration `default:"2s" help:"Delay after page load before capturing HTML"`
	MaxPages    int64         `default:"75" help:"Browser pages served before the browser is recycled"`
	Debug       bool          `help:"Enable debug logging"`
}

// Run executes the CLI with the given arguments. It blocks until the
// context is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distilld"),
		kong.Description("Web scraping service with DOM simplification"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Shared browser for rendered fetches and searches.
	mgr, err := rod.NewManager(rod.WithMaxPages(cli.MaxPages))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer mgr.Close()

	fetcher := distillslog.NewLoggingFetcher(rod.NewFetcher(mgr, rod.WithSettleDelay(cli.Settle)), logger)
	defer fetcher.Close()

	searcher := distillslog.NewLoggingSearcher(rod.NewSearcher(mgr), logger)
	cleaner := distillslog.NewLoggingCleaner(nethtml.NewCleaner(), logger)

	pages := &scrape.Service{
		Fetcher:     fetcher,
		Cleaner:     cleaner,
		Extractor:   trafilatura.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		Limiter:     scrape.NewDomainLimiter(cli.RPS),
		Logger:      logger,
		Concurrency: cli.Concurrency,
	}

	if !cli.NoCache {
		db := sqlite.NewDB(cli.Cache)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer db.Close()
		pages.Cache = sqlite.NewPageCache(db)
	}

	server := distillhttp.NewServer(logger)
	server.Addr = cli.Addr
	server.Pages = pages
	server.Searcher = searcher
	server.Browser = mgr

	if err := server.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info("listening", "addr", server.URL())

	<-ctx.Done()
	logger.Info("shutting down")
	return server.Close()
}
