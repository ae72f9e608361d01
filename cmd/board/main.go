// Command board prints the kanban board to the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/auth"
	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/config"
	"github.com/spec-kit/kanban-board/internal/domain"
	"github.com/spec-kit/kanban-board/internal/observability"
	"github.com/spec-kit/kanban-board/internal/render"
	"github.com/spec-kit/kanban-board/internal/repository"
	"github.com/spec-kit/kanban-board/internal/service"
	"github.com/spec-kit/kanban-board/internal/source"
)

type options struct {
	group      string
	sort       string
	refresh    bool
	reset      bool
	width      int
	issueToken string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	fs.StringVarP(&opts.group, "group", "g", "", "group tickets by status, user or priority (stored for next time)")
	fs.StringVarP(&opts.sort, "sort", "s", "", "sort each column by priority or title (stored for next time)")
	fs.BoolVar(&opts.refresh, "refresh", false, "fetch the feed even if the cache is populated")
	fs.BoolVar(&opts.reset, "reset", false, "forget cached tickets, users and preferences before running")
	fs.IntVarP(&opts.width, "width", "w", render.DefaultColumnWidth, "column width in cells")
	fs.StringVar(&opts.issueToken, "issue-token", "", "print an admin token for `subject` and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Board output owns stdout.
	cfg.Logger.Output = "stderr"
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logger.Level = "warn"
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if opts.issueToken != "" {
		if err := issueToken(cfg.Auth, opts.issueToken); err != nil {
			logger.Fatal("issue token", zap.Error(err))
		}
		return
	}

	if err := run(context.Background(), cfg, opts, logger); err != nil {
		logger.Fatal("board", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	store, _, closeStore := cache.Open(ctx, cfg, logger)
	defer closeStore()

	svc := service.NewBoardService(service.BoardDependencies{
		SnapshotRepo:   repository.NewSnapshotRepository(store, logger),
		PreferenceRepo: repository.NewPreferenceRepository(store),
		Fetcher:        source.NewClient(cfg.Source.URL, cfg.Source.Timeout()),
		Logger:         logger,
	})

	if opts.reset {
		if err := svc.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	if opts.group != "" || opts.sort != "" {
		prefs := svc.Preferences(ctx)
		if opts.group != "" {
			prefs.GroupBy = domain.GroupingMode(opts.group)
		}
		if opts.sort != "" {
			prefs.SortBy = domain.SortMode(opts.sort)
		}
		if _, err := svc.SetPreferences(ctx, prefs); err != nil {
			return err
		}
	}

	if opts.refresh {
		// One fetch only. On failure the cached board is still printed.
		svc.Load(ctx)
		_, _ = svc.Refresh(ctx)
	} else {
		svc.Start(ctx)
		svc.Wait()
	}

	view, cols := svc.Columns(ctx, service.BoardQuery{})
	_, err := fmt.Fprint(os.Stdout, render.Board(view, cols, render.Options{ColumnWidth: opts.width}))
	return err
}

func issueToken(cfg config.AuthConfig, subject string) error {
	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	if tokens == nil {
		return errors.New("AUTH_JWT_SECRET is not set")
	}
	token, expires, err := tokens.GenerateToken(subject, auth.ScopeBoardAdmin)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n# expires %s\n", token, expires.Format(time.RFC3339))
	return nil
}
