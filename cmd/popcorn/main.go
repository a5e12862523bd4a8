package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/popcorn/internal/config"
	"github.com/mmcdole/popcorn/internal/controller"
	"github.com/mmcdole/popcorn/internal/log"
	"github.com/mmcdole/popcorn/internal/metrics"
	"github.com/mmcdole/popcorn/internal/moviedb"
	"github.com/mmcdole/popcorn/internal/search"
	"github.com/mmcdole/popcorn/internal/store"
	"github.com/mmcdole/popcorn/internal/tui"
	"github.com/mmcdole/popcorn/internal/tui/styles"
	"github.com/mmcdole/popcorn/internal/watchlist"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var showVersion bool
	var configFile string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configFile, "config", "", "path to config file")
	flag.Parse()

	if showVersion {
		fmt.Printf("popcorn %s\n", Version)
		return
	}

	if err := run(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting popcorn", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := metrics.Recorder(metrics.Nop{})
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		recorder = metrics.NewCollector(reg)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg, logger); err != nil {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	watchedStore, err := store.NewWatchedStore(cfg.Storage.Path, cfg.Storage.Slot)
	if err != nil {
		return fmt.Errorf("failed to open watched store: %w", err)
	}
	defer watchedStore.Close()

	client := moviedb.NewClient(clientOptions(cfg, recorder), logger)

	watched, err := watchlist.NewService(watchedStore, recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to load watched list: %w", err)
	}

	searchSvc := search.NewService(client, search.Options{
		MinQueryLength: cfg.Search.MinQueryLength,
		Metrics:        recorder,
	}, logger)
	detailSvc := search.NewDetailService(client, recorder, logger)

	env := tui.NewEnvironment()
	notifier := tui.NewChangeNotifier()
	ctrl := controller.New(searchSvc, detailSvc, watched, env, controller.Options{
		Title:  cfg.UI.Title,
		Notify: notifier.Notify,
	}, logger)
	defer ctrl.Close()

	model := tui.NewModel(ctrl, env, notifier, tui.Options{
		Logo:       cfg.UI.Title,
		MaxResults: cfg.UI.MaxResults,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func clientOptions(cfg *config.Config, recorder metrics.Recorder) moviedb.Options {
	return moviedb.Options{
		BaseURL:   cfg.API.BaseURL,
		APIKey:    cfg.API.Key,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Metrics:   recorder,
	}
}

// runSetupFlow asks for an API key, checks it and saves the config
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return fmt.Errorf("no API key configured: set api.key in the config file or POPCORN_API_KEY")
	}

	fmt.Println()
	fmt.Println("Welcome to Popcorn!")
	fmt.Println()
	fmt.Println("Popcorn needs a kinopoisk.dev API key.")
	fmt.Println()

	for {
		fmt.Print("API key: ")
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}

		key := strings.TrimSpace(string(keyBytes))
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		cfg.API.Key = key
		if err := verifyKeyWithSpinner(cfg, logger); err != nil {
			fmt.Printf("\n✗ Could not verify the key: %v\n", err)
			fmt.Println("Please check the key and try again.")
			fmt.Println()
			continue
		}
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run popcorn again to start the application.")

	return nil
}

// verifyKeyWithSpinner runs a test search with a visual spinner
func verifyKeyWithSpinner(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	client := moviedb.NewClient(clientOptions(cfg, nil), logger)

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.VerifyKey(ctx)
	}()

	frame := 0
	fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("verification timed out")
		}
	}
}
