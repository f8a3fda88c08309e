// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package bot connects the formation service to Discord and to a small admin
// HTTP server, and keeps pending suggestions from outliving their deadline.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/matchmaker"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/notify"
)

const shutdownTimeout = 10 * time.Second

// Session is the part of *discordgo.Session the bot drives.
type Session interface {
	notify.Session
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Session = (*discordgo.Session)(nil)

// Formations is the formation service as the bot sees it.
type Formations interface {
	Execute(scope *envelope.Scope) (matchmaker.Report, error)
	Preview(scope *envelope.Scope) (models.FormationResult, error)
}

// Store is what the bot needs from storage besides the formation pipeline.
type Store interface {
	ExpireSuggestions(scope *envelope.Scope, now time.Time) (int64, error)
	Ping(ctx context.Context) error
}

type Options struct {
	AppID         string
	GuildID       string
	AdminAddr     string
	AdminToken    string
	SweepInterval time.Duration
	Registry      *prometheus.Registry
}

type Bot struct {
	session    Session
	formations Formations
	responder  *notify.Responder
	store      Store
	opts       Options
	now        func() time.Time
}

func New(session Session, formations Formations, responder *notify.Responder, store Store, opts Options) *Bot {
	return &Bot{
		session:    session,
		formations: formations,
		responder:  responder,
		store:      store,
		opts:       opts,
		now:        time.Now,
	}
}

// Run opens the gateway, registers the slash command and serves until ctx is
// cancelled or one of the loops fails.
func (b *Bot) Run(ctx context.Context) error {
	routeDiscordLogs()

	b.session.AddHandler(b.onInteraction)
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			logrus.Warnf("closing discord session: %s", err)
		}
	}()

	_, err := b.session.ApplicationCommandBulkOverwrite(b.opts.AppID, b.opts.GuildID, []*discordgo.ApplicationCommand{formTeamsCommand()})
	if err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}
	logrus.WithField("guildID", b.opts.GuildID).Info("slash commands registered")

	server := &http.Server{
		Addr:              b.opts.AdminAddr,
		Handler:           b.AdminRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if b.opts.AdminToken == "" {
		logrus.Warn("ADMIN_TOKEN is empty, the /formations endpoints refuse every request")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Infof("admin server listening on %s", b.opts.AdminAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		b.SweepExpired(gctx, b.opts.SweepInterval)
		return nil
	})

	return g.Wait()
}

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.HandleInteraction(context.Background(), i)
}

// HandleInteraction routes one Discord interaction.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	scope := envelope.NewRootScope(ctx, "Bot.HandleInteraction", i.ID)
	defer scope.Finish()

	if i.Type == discordgo.InteractionApplicationCommand {
		if i.ApplicationCommandData().Name == formTeamsCommandName {
			b.handleFormTeams(scope, i)
		}
		return
	}

	handled, err := b.responder.HandleInteraction(scope, i)
	if err != nil {
		scope.Log.Errorf("interaction %s failed: %s", i.ID, err)
		return
	}
	if !handled {
		scope.Log.Debugf("interaction %s is not ours", i.ID)
	}
}

// SweepExpired expires overdue suggestions every interval until ctx is done.
func (b *Bot) SweepExpired(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweepOnce(ctx)
		}
	}
}

func (b *Bot) sweepOnce(ctx context.Context) {
	scope := envelope.NewRootScope(ctx, "Bot.SweepExpired", "")
	defer scope.Finish()

	if _, err := b.store.ExpireSuggestions(scope, b.now()); err != nil {
		scope.Log.Errorf("expiry sweep failed: %s", err)
	}
}

// routeDiscordLogs sends discordgo's own log lines through logrus.
func routeDiscordLogs() {
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		entry := logrus.WithField("source", "discordgo")
		switch msgL {
		case discordgo.LogError:
			entry.Errorf(format, a...)
		case discordgo.LogWarning:
			entry.Warnf(format, a...)
		case discordgo.LogInformational:
			entry.Infof(format, a...)
		default:
			entry.Debugf(format, a...)
		}
	}
}
