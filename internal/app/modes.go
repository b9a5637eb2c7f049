package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/HEGATNB/kyrsach-basketball/internal/auth"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/notify"
	"github.com/HEGATNB/kyrsach-basketball/internal/server"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/handler"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/ws"
	"github.com/HEGATNB/kyrsach-basketball/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// ServeMode runs the HTTP API and WebSocket hub until the context is
// cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode",
		slog.Int("port", a.cfg.Server.Port),
	)

	tokens := auth.NewTokenManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL.Duration)
	hub := ws.NewHub(a.logger)
	notifier := a.buildNotifier()

	predictionSvc := service.NewPredictionService(service.PredictionServiceParams{
		Teams:        deps.Teams,
		Matches:      deps.Matches,
		History:      deps.History,
		Preds:        deps.Preds,
		Audit:        deps.Audit,
		Cache:        deps.TeamCache,
		Accuracy:     deps.AccuracyCache,
		Weights:      a.cfg.Model.Weights,
		FetchTimeout: a.cfg.Model.FetchTimeout.Duration,
		Hub:          hub,
		Notifier:     notifier,
		Logger:       a.logger,
	})
	teamSvc := service.NewTeamService(deps.Teams, deps.Players, deps.TeamCache, deps.Audit, a.logger)
	playerSvc := service.NewPlayerService(deps.Players, deps.Teams, deps.Audit, a.logger)
	matchSvc := service.NewMatchService(deps.Matches, deps.Teams, deps.TeamCache, deps.Audit, hub, notifier, a.logger)
	authSvc := service.NewAuthService(deps.Users, tokens, deps.Audit, a.logger)

	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(a.logger),
		Auth:        handler.NewAuthHandler(authSvc, a.logger),
		Teams:       handler.NewTeamHandler(teamSvc, a.logger),
		Players:     handler.NewPlayerHandler(playerSvc, a.logger),
		Matches:     handler.NewMatchHandler(matchSvc, a.logger),
		Predictions: handler.NewPredictionHandler(predictionSvc, a.logger),
		Audit:       handler.NewAuditHandler(deps.Audit, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:           a.cfg.Server.Port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		AuthRateLimit:  a.cfg.Server.AuthRateLimit,
		AuthRateWindow: a.cfg.Server.AuthRateWindow.Duration,
	}, handlers, tokens, deps.RateLimiter, hub, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildNotifier assembles the alert channels from the configuration. It
// returns nil when no channel is configured so services skip alerting
// entirely.
func (a *App) buildNotifier() service.Notifier {
	var senders []notify.Sender
	if a.cfg.Notify.TelegramBotToken != "" && a.cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(a.cfg.Notify.TelegramBotToken, a.cfg.Notify.TelegramChatID))
	}
	if a.cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(a.cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) == 0 {
		return nil
	}
	a.logger.Info("alert channels configured", slog.Int("senders", len(senders)))
	return notify.New(senders, a.cfg.Notify.Events, a.logger)
}

// TrainMode runs one bulk training pass over the untrained history and
// exits. It is the batch counterpart to the online train endpoint.
func (a *App) TrainMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting train mode")

	svc := service.NewPredictionService(service.PredictionServiceParams{
		Teams:        deps.Teams,
		Matches:      deps.Matches,
		History:      deps.History,
		Preds:        deps.Preds,
		Audit:        deps.Audit,
		Accuracy:     deps.AccuracyCache,
		Weights:      a.cfg.Model.Weights,
		FetchTimeout: a.cfg.Model.FetchTimeout.Duration,
		Logger:       a.logger,
	})

	result, err := svc.BulkTrain(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			a.logger.InfoContext(ctx, "no untrained records, nothing to do")
			return nil
		}
		return err
	}

	a.logger.InfoContext(ctx, "bulk training finished",
		slog.Float64("accuracy", result.Accuracy),
		slog.Int("sample_size", result.SampleSize),
	)
	return nil
}
