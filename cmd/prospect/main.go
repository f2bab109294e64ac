package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/config"
	"github.com/fwojciec/prospect/crawl"
	"github.com/fwojciec/prospect/enrich"
	"github.com/fwojciec/prospect/extract"
	"github.com/fwojciec/prospect/fs"
	"github.com/fwojciec/prospect/goquery"
	phttp "github.com/fwojciec/prospect/http"
	"github.com/fwojciec/prospect/hunter"
	"github.com/fwojciec/prospect/prometheus"
	"github.com/fwojciec/prospect/rod"
	"github.com/fwojciec/prospect/session"
	pslog "github.com/fwojciec/prospect/slog"
	"github.com/fwojciec/prospect/sqlite"
)

// APIKeyEnv overrides the stored key for the lookup command.
const APIKeyEnv = config.EnvPrefix + "API_KEY"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		stop()
		os.Exit(1)
	}
}

// describe renders err for the terminal. Application errors show their
// message; anything else is shown as is.
func describe(err error) string {
	if prospect.ErrorCode(err) == prospect.EINTERNAL {
		return "error: " + err.Error()
	}
	return "error: " + prospect.ErrorMessage(err)
}

// Main represents the program.
type Main struct {
	// Config is loaded in Run when nil.
	Config *config.Config

	// SQLite database holding the stored key.
	DB *sqlite.DB

	// Fetcher loads pages. Built in Run when nil.
	Fetcher prospect.Fetcher

	// Lookup is the lookup API. Built in Run when nil.
	Lookup prospect.LookupService

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prospect"),
		kong.Description("Extract profile details and find contact emails."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prospect --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if m.Config == nil {
		if m.Config, err = config.Load(ctx); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := m.Config
	if cli.BrowserProfile != "" {
		cfg.BrowserProfile = cli.BrowserProfile
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cfg.LogLevel, cli.Verbose)
	defer m.Close()

	// Everything but extract reads or writes the stored key.
	if cmd != "extract" {
		if err := m.openDB(cfg); err != nil {
			fmt.Fprintf(stderr, "Hint: Set %sDB_PATH to use a different database path\n", config.EnvPrefix)
			return err
		}
	}

	needsPages := cmd == "serve" || cmd == "batch" ||
		(cmd == "extract" && cli.Extract.HTML == "") ||
		(cmd == "lookup" && cli.Lookup.URL != "")
	if needsPages {
		if err := m.openFetcher(cfg, cli.Static, deps.Logger); err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --static")
			return err
		}
	}

	var metrics *prometheus.Metrics
	if cmd == "serve" {
		metrics = prometheus.NewMetrics()
	}
	m.wire(deps, cmd, cli.SavePages, metrics)

	return kongCtx.Run(deps)
}

// wire builds the services from Main's components.
func (m *Main) wire(deps *Dependencies, cmd, savePages string, metrics *prometheus.Metrics) {
	cfg := deps.Config
	logger := deps.Logger

	parser := goquery.NewParser()
	extractor := extract.NewExtractor()
	deps.Parser = parser
	deps.Extractor = extractor

	if m.Fetcher != nil {
		fetcher := m.Fetcher
		if savePages != "" {
			fetcher = fs.NewArchivingFetcher(fetcher, savePages)
		}
		var reader prospect.ProfileReader = &extract.Reader{
			Fetcher:   pslog.NewLoggingFetcher(fetcher, logger),
			Parser:    parser,
			Extractor: extractor,
		}
		if metrics != nil {
			reader = prometheus.NewProfileReader(reader, metrics)
		}
		deps.Reader = pslog.NewLoggingProfileReader(reader, logger)
	}

	if m.DB == nil {
		return
	}

	lookup := m.Lookup
	if lookup == nil {
		lookup = hunter.NewClient(
			hunter.WithBaseURL(cfg.APIBaseURL),
			hunter.WithHTTPClient(&http.Client{Timeout: cfg.LookupTimeout}),
			hunter.WithRateLimit(cfg.LookupRPS),
		)
	}
	if metrics != nil {
		lookup = prometheus.NewLookupService(lookup, metrics)
	}
	lookup = pslog.NewLoggingLookupService(lookup, logger)

	var credentials prospect.CredentialStore = sqlite.NewCredentialStore(m.DB)
	deps.Credentials = credentials
	if key := os.Getenv(APIKeyEnv); key != "" && cmd == "lookup" {
		credentials = &envCredential{CredentialStore: credentials, key: key}
	}

	svc := &enrich.Service{Lookup: lookup, Credentials: credentials, Logger: logger}
	deps.Keys = svc

	var enricher prospect.Enricher = svc
	if metrics != nil {
		enricher = prometheus.NewEnricher(enricher, metrics)
	}
	deps.Enricher = pslog.NewLoggingEnricher(enricher, logger)

	switch cmd {
	case "serve":
		cache := session.NewCache(cfg.CacheTTL)
		deps.Server = &phttp.Server{
			Reader:    deps.Reader,
			Parser:    parser,
			Extractor: extractor,
			Enricher:  deps.Enricher,
			Accounts:  svc,
			Cache:     cache,
			Tracker:   session.NewTracker(cache),
			Metrics:   metrics,
			Logger:    logger,
		}
	case "batch":
		deps.Batch = &crawl.Batch{
			Reader:      deps.Reader,
			Enricher:    deps.Enricher,
			Limiter:     crawl.NewDomainLimiter(1),
			Concurrency: cfg.Concurrency,
			Logger:      logger,
		}
	}
}

func (m *Main) openDB(cfg *config.Config) error {
	if m.DB != nil {
		return nil
	}
	path, err := config.ExpandPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.DB = db
	m.closers = append(m.closers, db)
	return nil
}

func (m *Main) openFetcher(cfg *config.Config, static bool, logger *slog.Logger) error {
	if m.Fetcher != nil {
		return nil
	}
	if static {
		m.Fetcher = phttp.NewFetcher(phttp.WithTimeout(cfg.FetchTimeout))
		m.closers = append(m.closers, m.Fetcher)
		return nil
	}

	var browser []rod.ManagerOption
	if cfg.BrowserProfile != "" {
		dir, err := config.ExpandPath(cfg.BrowserProfile)
		if err != nil {
			return err
		}
		browser = append(browser, rod.WithUserDataDir(dir))
	}
	fetcher, err := rod.NewFetcher(
		rod.WithFetchTimeout(cfg.FetchTimeout+cfg.RenderWait),
		rod.WithWait(extract.WaitConfig{Timeout: cfg.RenderWait}),
		rod.WithBrowser(browser...),
	)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	logger.Debug("browser started", "pid", fetcher.LauncherPID())
	m.Fetcher = fetcher
	m.closers = append(m.closers, fetcher)
	return nil
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// envCredential serves a key from the environment in place of the stored one.
type envCredential struct {
	prospect.CredentialStore
	key string
}

func (c *envCredential) Credential(context.Context) (string, error) {
	return c.key, nil
}
