package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
	"github.com/gusmmm/wikidoc/htmltomarkdown"
	"github.com/gusmmm/wikidoc/mongo"
	wikislog "github.com/gusmmm/wikidoc/slog"
	"github.com/gusmmm/wikidoc/sqlite"
	"github.com/gusmmm/wikidoc/wikipedia"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Optional .env for local configuration; absence is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for the SQLite store. Set before calling Run().
	DBPath string

	// MongoURI selects the MongoDB store when non-empty.
	MongoURI string

	// Lang is the Wikipedia language edition, e.g. "en".
	Lang string

	// SQLite database, set when the SQLite store is used.
	DB *sqlite.DB

	// MongoDB database, set when the MongoDB store is used.
	Mongo *mongo.DB

	// Services for end-to-end testing.
	Documents wikidoc.DocumentService
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	lang := os.Getenv("WIKIDOC_LANG")
	if lang == "" {
		lang = "en"
	}
	return &Main{
		DBPath:   defaultDBPath(),
		MongoURI: os.Getenv("WIKIDOC_MONGO_URI"),
		Lang:     lang,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	if m.Mongo != nil {
		return m.Mongo.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wikidoc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wikidoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := m.openStore(stderr); err != nil {
		return err
	}
	defer m.Close()

	documents := m.Documents
	if cli.Verbose {
		documents = wikislog.NewLoggingDocumentService(documents, logger)
	}

	var fetcher wikidoc.Fetcher
	if cmd == "get" || cmd == "sections" {
		fetcher = wikipedia.NewFetcher(
			htmltomarkdown.NewConverter(),
			wikipedia.WithEndpoint(endpointForLang(m.Lang)),
		)
		if cli.Verbose {
			fetcher = wikislog.NewLoggingFetcher(fetcher, logger)
		}
		defer fetcher.Close()
	}

	deps.Cache = &cache.Orchestrator{
		Documents: documents,
		Fetcher:   fetcher,
	}

	return kongCtx.Run(deps)
}

// openStore opens the MongoDB store when a URI is configured, falling back
// to the SQLite store at DBPath.
func (m *Main) openStore(stderr io.Writer) error {
	if m.MongoURI != "" {
		m.Mongo = mongo.NewDB(m.MongoURI)
		if err := m.Mongo.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Check WIKIDOC_MONGO_URI and that MongoDB is reachable")
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		m.Documents = mongo.NewDocumentService(m.Mongo)
		return nil
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set WIKIDOC_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.Documents = sqlite.NewDocumentService(m.DB)
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("WIKIDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "wikidoc.db"
	}
	dir := filepath.Join(home, ".wikidoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "wikidoc.db")
}

// endpointForLang returns the action API endpoint for a language edition.
func endpointForLang(lang string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
}
