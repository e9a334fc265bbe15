package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rusca02/shpe-assistant/answer"
	"github.com/rusca02/shpe-assistant/api"
	"github.com/rusca02/shpe-assistant/config"
	"github.com/rusca02/shpe-assistant/database"
	"github.com/rusca02/shpe-assistant/embeddings"
	"github.com/rusca02/shpe-assistant/extract"
	"github.com/rusca02/shpe-assistant/index"
	"github.com/rusca02/shpe-assistant/ingestion"
	"github.com/rusca02/shpe-assistant/llm"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("configuration: %v", err)
	}

	switch os.Args[1] {
	case "ingest":
		ingestCmd(cfg, logger, os.Args[2:])
	case "ask":
		askCmd(cfg, logger, os.Args[2:])
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "clear":
		clearCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func ingestCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	dataDir := flags.String("dir", cfg.DataDir, "path to directory containing corpus documents")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ingest flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	store, closeStore, err := newStore(ctx, cfg, embedder)
	if err != nil {
		logger.Fatalf("index store setup: %v", err)
	}
	defer closeStore()

	extractor := extract.NewDefaultExtractor(cfg, logger)
	svc := ingestion.NewService(extractor, embedder, store, cfg.ChunkSize, cfg.ChunkOverlap, logger)

	logger.Printf("ingesting documents from %s using %s embeddings", *dataDir, embedder.ModelInfo())
	if err := svc.IngestDirectory(ctx, *dataDir); err != nil {
		logger.Fatalf("ingestion failed: %v", err)
	}
}

func askCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	question := flags.String("question", "", "question to ask against the indexed corpus")
	k := flags.Int("k", cfg.TopK, "number of context chunks to retrieve")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ask flags: %v", err)
	}

	if strings.TrimSpace(*question) == "" {
		fmt.Print("Enter your question: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			*question = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Fatalf("read question: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, closeSvc, err := newQueryService(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("query setup: %v", err)
	}
	defer closeSvc()

	ans, results, err := svc.Ask(ctx, *question, *k)
	if err != nil {
		logger.Fatalf("ask failed: %v", err)
	}

	fmt.Println(ans.Text)
	if len(results) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for i, result := range results {
			fmt.Printf("%d. %s (chunk %d, score %.3f)\n", i+1, result.Chunk.Source, result.Chunk.Index, result.Score)
		}
	}
	logger.Printf("query tokens: %d, answer tokens: %d", ans.QueryTokens, ans.AnswerTokens)
}

func serveCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", ":8080", "listen address for the HTTP API")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse serve flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, closeSvc, err := newQueryService(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("query setup: %v", err)
	}
	defer closeSvc()

	server := &http.Server{
		Addr:    *addr,
		Handler: api.New(svc, logger).Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Printf("serving HTTP API on %s", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("http server: %v", err)
	}
}

func clearCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("clear", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "skip confirmation prompt")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse clear flags: %v", err)
	}

	if !*confirmed {
		fmt.Print("This will permanently delete the indexed corpus. Continue? [y/N]: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Fatalf("read confirmation: %v", err)
			}
			logger.Println("clear aborted")
			return
		}
		reply := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if reply != "y" && reply != "yes" {
			logger.Println("clear aborted")
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch cfg.Store {
	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatalf("postgres connection: %v", err)
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, "TRUNCATE shpe_chunks"); err != nil {
			logger.Fatalf("truncate index table: %v", err)
		}
		logger.Println("cleared Postgres index")
	default:
		if err := os.Remove(cfg.IndexPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("remove index artifact: %v", err)
		}
		logger.Printf("removed index artifact %s", cfg.IndexPath)
	}
}

// newStore builds the write-side index store for an ingestion run.
func newStore(ctx context.Context, cfg config.Config, embedder embeddings.Embedder) (index.Store, func(), error) {
	if cfg.Store == config.StorePostgres {
		pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection: %w", err)
		}
		return index.NewPostgresStore(pool, cfg.Embeddings.Dimension), pool.Close, nil
	}
	store := index.NewFileStore(cfg.IndexPath, embedder.ModelInfo(), cfg.Embeddings.Dimension)
	return store, func() {}, nil
}

// newQueryService wires the read-only query pipeline: searcher, embedder,
// generative client, and synthesizer, constructed once.
func newQueryService(ctx context.Context, cfg config.Config, logger *log.Logger) (*answer.Service, func(), error) {
	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder setup: %w", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("llm setup: %w", err)
	}

	var searcher index.Searcher
	closeSearcher := func() {}
	if cfg.Store == config.StorePostgres {
		pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection: %w", err)
		}
		searcher = index.NewPostgresStore(pool, cfg.Embeddings.Dimension)
		closeSearcher = pool.Close
	} else {
		ix, err := index.Load(cfg.IndexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load index: %w", err)
		}
		if err := ix.ValidateDimension(cfg.Embeddings.Dimension); err != nil {
			return nil, nil, err
		}
		searcher = ix
	}

	synth := answer.NewSynthesizer(llmClient, answer.NewTiktokenCounter(cfg.LLM.Model), logger)
	return answer.NewService(embedder, searcher, synth, cfg.TopK, logger), closeSearcher, nil
}

func printUsage() {
	fmt.Println("Usage: shpe-assistant <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  ingest   Extract, chunk, embed, and index the corpus directory (use --dir to override)")
	fmt.Println("  ask      Answer a question against the indexed corpus")
	fmt.Println("  serve    Expose the question pipeline over HTTP")
	fmt.Println("  clear    Remove the indexed corpus")
}
