package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ravikiranms/hybridsearch/internal/engine"
	"github.com/ravikiranms/hybridsearch/internal/textpipe"
	"github.com/ravikiranms/hybridsearch/pkg/config"
	"github.com/ravikiranms/hybridsearch/pkg/health"
	"github.com/ravikiranms/hybridsearch/pkg/logger"
	"github.com/ravikiranms/hybridsearch/pkg/metrics"
	"github.com/ravikiranms/hybridsearch/pkg/resilience"
)

const queryTimeout = 5 * time.Second

type docFile struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	docsPath := flag.String("docs", "", "JSON file with documents to index")
	query := flag.String("query", "", "run a single query and exit")
	mode := flag.String("mode", "keyword", "search mode: keyword or fuzzy")
	interactive := flag.Bool("interactive", false, "start an interactive prompt")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search engine",
		"cache", cfg.Engine.EnableCache,
		"tfidf", cfg.Engine.EnableTFIDF,
		"phrases", cfg.Engine.EnablePhrase,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eng *engine.Engine
	if cfg.Metrics.Enabled {
		m := metrics.New()
		eng, err = engine.NewWithMetrics(cfg.Engine, m)
		if err != nil {
			slog.Error("failed to create engine", "error", err)
			os.Exit(1)
		}

		checker := health.NewChecker()
		checker.Register("engine", func(ctx context.Context) (health.Status, string) {
			stats := eng.Stats()
			return health.StatusUp, fmt.Sprintf("%d documents indexed", stats.Documents)
		})
		shutdown := metrics.StartServer(cfg.Metrics.Port, checker)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics server shutdown", "error", err)
			}
		}()
	} else {
		eng, err = engine.New(cfg.Engine)
		if err != nil {
			slog.Error("failed to create engine", "error", err)
			os.Exit(1)
		}
	}

	if *docsPath != "" {
		n, err := loadDocuments(eng, *docsPath)
		if err != nil {
			slog.Error("failed to load documents", "path", *docsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("documents indexed", "count", n, "path", *docsPath)
	}

	switch {
	case *query != "":
		if err := runQuery(ctx, eng, *query, engine.Mode(*mode), cfg.Engine.MaxResults); err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
	case *interactive:
		runPrompt(ctx, eng, cfg)
	default:
		flag.Usage()
	}
}

func loadDocuments(eng *engine.Engine, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var docs []docFile
	if err := json.Unmarshal(raw, &docs); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, d := range docs {
		err := eng.AddDocument(d.ID, engine.Document{
			Title:    d.Title,
			Content:  d.Content,
			Metadata: d.Metadata,
		})
		if err != nil {
			return 0, fmt.Errorf("index %q: %w", d.ID, err)
		}
	}
	return len(docs), nil
}

func runQuery(ctx context.Context, eng *engine.Engine, query string, mode engine.Mode, limit int) error {
	var results []engine.Result
	err := resilience.WithTimeout(ctx, queryTimeout, "search", func(ctx context.Context) error {
		var err error
		results, err = eng.Search(query, engine.SearchOptions{Mode: mode, MaxResults: limit})
		return err
	})
	if err != nil {
		return err
	}
	return printJSON(results)
}

func runPrompt(ctx context.Context, eng *engine.Engine, cfg *config.Config) {
	fmt.Println("commands: search <q> | fuzzy <q> | suggest <prefix> | related <id> | facets | stats | expand <pattern> | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch cmd {
		case "quit", "exit":
			return
		case "search":
			err = runQuery(ctx, eng, rest, engine.ModeKeyword, cfg.Engine.MaxResults)
		case "fuzzy":
			err = runQuery(ctx, eng, rest, engine.ModeFuzzy, cfg.Engine.MaxResults)
		case "suggest":
			err = printJSON(eng.Suggest(rest, cfg.Engine.MaxResults))
		case "related":
			var related []engine.Result
			related, err = eng.Related(rest, cfg.Engine.MaxResults)
			if err == nil {
				err = printJSON(related)
			}
		case "facets":
			err = printJSON(eng.Facets())
		case "stats":
			err = printJSON(eng.Stats())
		case "expand":
			var expanded string
			expanded, err = textpipe.ExpandRunLength(rest, cfg.Engine.MaxFuzzyExpand)
			if err == nil {
				fmt.Println(expanded)
			}
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
