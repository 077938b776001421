// Package cli implements the interactive wikisync client: session commands
// (login, logout, accounts) and the article commands (fetch, publish) built
// on the sync orchestrator.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/osobist/wikisync/internal/client/config"
	"github.com/osobist/wikisync/internal/client/repositories/meta"
	"github.com/osobist/wikisync/internal/client/secrets"
	"github.com/osobist/wikisync/internal/client/services"
	"github.com/osobist/wikisync/internal/client/wiki"
	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

type App struct {
	config   *config.Config
	sessions *services.SessionService
	sync     *services.SyncService
	meta     meta.Repository
	log      logging.Logger
	reader   *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	passphrase, err := GetPassword(os.Stdout, "Enter vault passphrase: ")
	if err != nil {
		return nil, err
	}
	vault, err := secrets.Open(cfg.VaultDir, passphrase)
	common.WipeByteArray(passphrase)
	if err != nil {
		return nil, err
	}

	db, err := meta.InitDatabase(ctx, cfg.MetaDBPath)
	if err != nil {
		return nil, err
	}
	metaRepo := meta.NewSQLiteRepository(db)

	wikiClient := wiki.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout, log)
	sessions := services.NewSessionService(wikiClient, vault, log)
	if err := sessions.Restore(ctx); err != nil {
		return nil, err
	}

	app := &App{
		config:   cfg,
		sessions: sessions,
		meta:     metaRepo,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}
	app.sync = services.NewSyncService(wikiClient, metaRepo, app.resolveSession, app.resolveConflict, log)

	sessions.Subscribe(func(e services.ChangeEvent) {
		for _, s := range e.Added {
			fmt.Printf("Signed in as %s.\n", s.AccountID)
		}
		for _, s := range e.Changed {
			fmt.Printf("Re-authenticated %s.\n", s.AccountID)
		}
		for _, s := range e.Removed {
			fmt.Printf("Signed out of %s.\n", s.AccountID)
		}
	})

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
