// ABOUTME: Line-oriented chat client for the recipe agent.
// ABOUTME: Wires config, session store, agent client, loading phrases and the conversation controller.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/sazon-chat/internal/agent"
	"github.com/2389/sazon-chat/internal/config"
	"github.com/2389/sazon-chat/internal/conversation"
	"github.com/2389/sazon-chat/internal/i18n"
	"github.com/2389/sazon-chat/internal/loading"
	"github.com/2389/sazon-chat/internal/session"
	"github.com/2389/sazon-chat/internal/store"
)

var version = "dev"

const banner = `
  ___  __ _ _______  _ __
 / __|/ _' |_  / _ \| '_ \
 \__ \ (_| |/ / (_) | | | |
 |___/\__,_/___\___/|_| |_|
`

func main() {
	configPath := flag.String("config", "", "Config file (default: $SAZON_CONFIG or ~/.config/sazon/client.yaml)")
	lang := flag.String("lang", "", "Display language: en or es (default: config, then LANG)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *lang); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n¡Buen provecho!")
}

func loadConfig(flagPath string) (*config.Config, string, error) {
	if flagPath != "" {
		cfg, err := config.Load(flagPath)
		return cfg, flagPath, err
	}
	path, explicit := config.ResolvePath()
	if explicit {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	cfg, err := config.LoadOptional(path)
	return cfg, path, err
}

func resolveLocale(flagLang, cfgLocale string, env i18n.Provider) (i18n.Locale, error) {
	if flagLang != "" {
		locale, ok := i18n.Parse(flagLang)
		if !ok {
			return "", fmt.Errorf("unsupported language %q", flagLang)
		}
		return locale, nil
	}
	if cfgLocale != "" {
		locale, _ := i18n.Parse(cfgLocale)
		return locale, nil
	}
	return env.Detect(), nil
}

// openStore returns the LocalStore for the configured driver and a closer for it.
func openStore(cfg config.StoreConfig) (session.LocalStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return session.NewMemoryStore(), nopCloser{}, nil
	case config.DriverSQLite3:
		s, err := store.NewSQLiteStoreWithDriver(store.DriverCgo, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		s, err := store.NewSQLiteStoreWithDriver(store.DriverModernc, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}

func run(ctx context.Context, configPath, lang string) error {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser, err := setupLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	locale, err := resolveLocale(lang, cfg.Locale, i18n.EnvProvider{})
	if err != nil {
		return err
	}

	localStore, storeCloser, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer storeCloser.Close()

	sessions := session.NewManager(localStore, logger)
	client := agent.NewClient(cfg.Agent.URL,
		agent.WithTimeout(cfg.Agent.Timeout),
		agent.WithLogger(logger),
	)
	scheduler := loading.NewScheduler(loading.RealClock{}, cfg.Loading.Interval, nil, logger)

	ctrl := conversation.New(client, sessions, scheduler, logger)
	defer ctrl.Close()
	ctrl.SetLocale(locale)

	printBanner(cfg, resolvedPath, locale)

	logger.Info("starting sazon-tui",
		"config", resolvedPath,
		"agent_url", cfg.Agent.URL,
		"store", cfg.Store.Driver,
		"locale", locale,
	)

	a := newApp(ctrl, sessions, os.Stdout, !color.NoColor, logger)
	watchCtx, stopWatch := context.WithCancel(ctx)
	printed := a.watch(watchCtx)
	defer func() {
		stopWatch()
		<-printed
	}()

	a.printWelcome()
	return readLoop(ctx, a, os.Stdin)
}

func printBanner(cfg *config.Config, configPath string, locale i18n.Locale) {
	s := i18n.Lookup(locale)

	red := color.New(color.FgRed, color.Bold)
	red.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    %s · %s · version %s\n\n", s.Title, s.Subtitle, version)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Agent:  %s\n", cfg.Agent.URL)
	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Store:  %s %s\n", cfg.Store.Driver, cfg.Store.Path)
	fmt.Println()
	fmt.Println("Type a question and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()
}

func readLoop(ctx context.Context, a *app, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(a.out, "> ")

		// Read input with context awareness
		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				// Piped input: let the last reply print before exiting
				a.wait(ctx)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		if a.handle(ctx, input) {
			return nil
		}
	}
}
