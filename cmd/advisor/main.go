// Package main is the advisor CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/careerpath/advisor/internal/cli"
	"github.com/careerpath/advisor/internal/config"
	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/indexer"
	"github.com/careerpath/advisor/internal/loader"
	"github.com/careerpath/advisor/internal/metrics"
	"github.com/careerpath/advisor/internal/rag"
	"github.com/careerpath/advisor/internal/server"
	"github.com/careerpath/advisor/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/advisor/config.yaml"
	defaultServerURL  = "http://localhost:8000"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence; when neither exists the built-in defaults
// are used. Returns the config and the path that was loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return nil, "", err
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return cfg, "", nil
		}
		return cfg, path, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A missing .env file is fine; the environment may already carry the key.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "query":
		runQuery()
	case "index":
		runIndex()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("advisor version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if resolved == "" {
		resolved = "(defaults)"
	}
	logger.Info("config loaded",
		zap.String("config_path", resolved),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	rt := rag.Bootstrap(context.Background(), cfg, logger, rag.WithMetrics(metrics.NewRecorder()))
	defer rt.Close()

	srv := server.NewServer(rt, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printQueryUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: advisor query [flags] <question>")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	fs.PrintDefaults()
}

func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// queryArgsReorder moves flags given after the question to the front, since
// flag parsing stops at the first positional argument.
func queryArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	timeout := fs.Duration("timeout", 2*time.Minute, "request timeout")
	fs.Usage = func() { printQueryUsage(fs) }
	_ = fs.Parse(queryArgsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printQueryUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	resp, err := cli.NewClient(*serverURL, *timeout).Query(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	st, err := cli.NewClient(*serverURL, 10*time.Second).Status(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, st, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// runIndex runs the startup pipeline once without serving, to check the corpus
// and the embedding model.
func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	emb, err := embedding.New(&cfg.Embedding, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer emb.Close()

	idx := indexer.NewIndexer(
		loader.New(cfg.Corpus.Directory, cfg.Corpus.Extensions, loader.WithLogger(logger)),
		indexer.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.OverlapOrDefault()),
		emb,
		indexer.WithLogger(logger),
	)
	res, err := idx.Build(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Indexing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Corpus:     %s\n", cfg.Corpus.Directory)
	fmt.Printf("Documents:  %d\n", res.Documents)
	fmt.Printf("Chunks:     %d\n", res.Chunks)
	fmt.Printf("Vectors:    %d (%d dimensions, %s)\n", res.Index.Size(), res.Index.Dimensions(), emb.Name())
	fmt.Printf("Took:       %s\n", res.Duration.Round(time.Millisecond))
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "path of the config file to write")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", *path)
}

// writeDefaultConfig saves the built-in defaults to path, refusing to replace an
// existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return config.Save(path, config.Default())
}

func printUsage() {
	fmt.Println(`advisor - Career advice over a Markdown knowledge base

Usage:
  advisor server [flags]            Start the HTTP server
  advisor query [flags] <question>  Ask a running server a question
  advisor index [flags]             Build the index once and print corpus statistics
  advisor status [flags]            Show the server's pipeline status
  advisor init [flags]              Write a config file with the default settings
  advisor version                   Show version
  advisor help                      Show this help

Server / Index Flags:
  --config string    Config file path (default: /usr/local/etc/advisor/config.yaml, or ./config.yaml)
  --debug            Enable debug logging

Query / Status Flags:
  --server string    Server URL (default: http://localhost:8000)
  --output string    Output format: text or json (default: text)
  --timeout duration Request timeout for query (default: 2m)

Init Flags:
  --config string    Path to write (default: config.yaml)
  --force            Overwrite an existing file

Environment:
  GOOGLE_API_KEY     Gemini API key; also read from a .env file in the working directory

Examples:
  advisor server
  advisor query "What do software engineers do?"
  advisor query --output json "How do I become a nurse?"
  advisor index --config ./config.yaml
  advisor status`)
}
