// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/hackathon-teambot/pkg/compatibility"
	"github.com/AccelByte/hackathon-teambot/pkg/config"
	"github.com/AccelByte/hackathon-teambot/pkg/matchmaker"
	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
	"github.com/AccelByte/hackathon-teambot/pkg/notify"
	"github.com/AccelByte/hackathon-teambot/pkg/storage"
)

var errNoDiscordToken = errors.New("DISCORD_TOKEN is required")

// app holds the components every command builds the same way.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	registry *prometheus.Registry
	metrics  metrics.FormationMetrics
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := storage.Open(ctx, cfg.DatabaseType, cfg.Database, logrus.StandardLogger())
	if err != nil {
		return nil, err
	}
	if err = store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &app{
		cfg:      cfg,
		store:    store,
		registry: registry,
		metrics:  metrics.NewMetrics(registry),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logrus.Warnf("closing database: %s", err)
	}
}

func (a *app) discordSession() (*discordgo.Session, error) {
	if a.cfg.DiscordToken == "" {
		return nil, errNoDiscordToken
	}
	session, err := discordgo.New("Bot " + a.cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages
	return session, nil
}

// formationService wires the pipeline. A nil notifier saves suggestions
// without messaging anyone.
func (a *app) formationService(notifier matchmaker.Notifier) *matchmaker.Service {
	rules := a.cfg.Rules
	engine := matchmaker.NewEngine(rules, compatibility.NewScorer(), a.metrics)
	orchestrator := matchmaker.NewOrchestrator(a.store, engine, a.metrics)
	return matchmaker.NewService(orchestrator, a.store, notifier, rules.SuggestionTTL, a.metrics)
}

func (a *app) notifier(session notify.Session) *notify.Notifier {
	return notify.NewNotifier(session, a.cfg.NotificationsPerSecond, a.metrics)
}
