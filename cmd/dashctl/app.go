package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/client"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/config"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/storage"
)

var errNotLoggedIn = errors.New("not logged in, run `dashctl login` first")

// app is the per-invocation state shared by the commands.
type app struct {
	cfg     *config.ClientConfig
	loc     *time.Location
	store   *storage.LocalStorage
	session client.Session
	hasAuth bool
	repo    *client.Repository

	// Leave and finance live in the local mirror only.
	leaves  *client.LeaveMirror
	finance *client.FinanceMirror
}

func newApp(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(os.Stderr, logger.Options{App: "dashctl", Version: version, Env: "cli", Level: level})

	store, err := storage.NewLocalStorage(cfg.MirrorDir)
	if err != nil {
		return nil, err
	}
	session, hasAuth, err := client.LoadSession(ctx, store)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithLogger(log)}
	if hasAuth && session.Token != "" {
		opts = append(opts, client.WithPrimary(client.NewAPIClient(ctx, serverURL(cfg, session), session.Token, cfg.Timeout, loc)))
	}

	return &app{
		cfg:     cfg,
		loc:     loc,
		store:   store,
		session: session,
		hasAuth: hasAuth,
		repo:    client.NewRepository(client.NewMirror(store), loc, opts...),
		leaves:  client.NewLeaveMirror(store, loc),
		finance: client.NewFinanceMirror(store),
	}, nil
}

func serverURL(cfg *config.ClientConfig, s client.Session) string {
	if s.ServerURL != "" {
		return s.ServerURL
	}
	return cfg.ServerURL
}

func (a *app) principal() (user.Principal, error) {
	if !a.hasAuth || a.session.UserID == "" {
		return user.Principal{}, errNotLoggedIn
	}
	return user.Principal{ID: a.session.UserID, Role: user.Role(a.session.Role)}, nil
}
