package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/smileynet/pokecard/internal/cache"
	"github.com/smileynet/pokecard/internal/card"
	"github.com/smileynet/pokecard/internal/config"
	"github.com/smileynet/pokecard/internal/dashboard"
	"github.com/smileynet/pokecard/internal/pokeapi"
	"github.com/smileynet/pokecard/internal/pokedex"
	"github.com/smileynet/pokecard/internal/storage"
	"github.com/smileynet/pokecard/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for pokecard.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Show    ShowCmd          `cmd:"" help:"Show the card for one creature."`
	Browse  BrowseCmd        `cmd:"" help:"Open the interactive card browser."`
	Cache   CacheCmd         `cmd:"" help:"Inspect the persisted cache."`
}

// OverrideFlags are CLI overrides shared by commands. Empty values leave
// the configured setting alone.
type OverrideFlags struct {
	BaseURL string `help:"PokéAPI base URL." name:"base-url"`
	Storage string `help:"Storage driver (file, sqlite, memory)."`
}

// apply copies set flags onto cfg.
func (f OverrideFlags) apply(cfg *config.Config) {
	if f.BaseURL != "" {
		cfg.API.BaseURL = f.BaseURL
	}
	if f.Storage != "" {
		cfg.Storage.Driver = f.Storage
	}
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/pokecard/config.yaml"),
		".pokecard/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, applies flags and validates.
func setup(flags OverrideFlags) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the long-lived dependencies shared by commands.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	cache   *cache.Cache
	fetcher card.Fetcher
	closers []io.Closer
}

// newApp builds the logger, storage, cache and API client from cfg.
// A storage backend that cannot be opened is logged and left out; the
// controller then treats storage as unavailable.
func newApp(cfg *config.Config, logFallback io.Writer) (*app, error) {
	logger, logCloser, err := config.NewLogger(cfg.Logging, logFallback)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage unavailable")
	} else {
		a.cache = cache.New(store, cache.WithLogger(logger))
		a.closers = append([]io.Closer{store}, a.closers...)
	}

	a.fetcher = pokeapi.NewClient(cfg.API.BaseURL,
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithLogger(logger),
	)
	return a, nil
}

// controller returns a new controller over the app's cache and client.
func (a *app) controller(ctx context.Context) *card.Controller {
	return card.NewController(a.cache, a.fetcher,
		card.WithContext(ctx),
		card.WithLogger(a.logger),
	)
}

// Close releases storage and the log file.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// --- Show command ---

// ShowCmd renders the card for one selection and exits.
type ShowCmd struct {
	Number string `arg:"" help:"National dex number."`
	NoTUI  bool   `help:"Force plain text output even if stdout is a TTY." default:"false"`

	Overrides OverrideFlags `embed:""`
}

// Run builds real dependencies and shows the card.
func (s *ShowCmd) Run() error {
	sel, err := pokedex.ParseSelection(s.Number)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	cfg, err := setup(s.Overrides)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		Writer:     os.Stdout,
		ForcePlain: s.NoTUI,
		Card:       card.Options{ImageCategory: cfg.Display.ImageCategory},
	})
	return s.run(ctx, display, a.controller(ctx), sel)
}

// run drives the display, enabling testable wiring.
func (s *ShowCmd) run(ctx context.Context, display tui.Display, ctrl *card.Controller, sel pokedex.Selection) error {
	if err := display.Run(ctx, ctrl, sel); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return nil
}

// --- Browse command ---

// BrowseCmd opens the interactive card browser.
type BrowseCmd struct {
	Number string `arg:"" optional:"" help:"National dex number to start at." default:"1"`

	Overrides OverrideFlags `embed:""`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the browser TUI.
func (b *BrowseCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	sel, err := pokedex.ParseSelection(b.Number)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	cfg, err := setup(b.Overrides)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	// The alt screen owns the terminal, so console logs would be lost.
	a, err := newApp(cfg, io.Discard)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer func() { _ = a.Close() }()

	m := dashboard.NewModel(a.controller(context.Background()),
		dashboard.WithInitialSelection(sel),
		dashboard.WithCache(a.cache),
		dashboard.WithImageCategory(cfg.Display.ImageCategory),
	)

	prog := tea.NewProgram(m, tea.WithAltScreen())
	return b.run(true, prog)
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- Cache commands ---

// CacheCmd groups cache inspection subcommands.
type CacheCmd struct {
	List CacheListCmd `cmd:"" help:"List cached creatures."`
}

// CacheListCmd prints every cached selection with its name.
type CacheListCmd struct {
	Overrides OverrideFlags `embed:""`
}

// Run opens the configured storage and lists its cache.
func (c *CacheListCmd) Run() error {
	cfg, err := setup(c.Overrides)
	if err != nil {
		return fmt.Errorf("cache list: %w", err)
	}
	logger, logCloser, err := config.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("cache list: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("cache list: %w", err)
	}
	defer func() { _ = store.Close() }()

	return c.run(context.Background(), os.Stdout, cache.New(store, cache.WithLogger(logger)))
}

// run loads and prints the cache, enabling testable wiring.
func (c *CacheListCmd) run(ctx context.Context, w io.Writer, ch *cache.Cache) error {
	if err := ch.Load(ctx); err != nil {
		return fmt.Errorf("cache list: %w", err)
	}
	if ch.Len() == 0 {
		_, _ = fmt.Fprintln(w, "cache is empty")
		return nil
	}
	for _, sel := range ch.Selections() {
		name := "(unreadable)"
		if rec, ok := ch.Record(sel); ok {
			name = card.DisplayName(rec.Name)
		}
		_, _ = fmt.Fprintf(w, "#%s %s\n", pokedex.FullNumber(sel), name)
	}
	return nil
}

const (
	exitSuccess = 0
	exitNoData  = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, tui.ErrNoData) {
		return exitNoData
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
