// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AccelByte/hackathon-teambot/pkg/bot"
	"github.com/AccelByte/hackathon-teambot/pkg/notify"
	"github.com/AccelByte/hackathon-teambot/pkg/tracing"
)

const serviceName = "hackathon-teambot"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connects to Discord and serves the admin endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		shutdownTracing, err := tracing.Setup(serviceName, cfg.ZipkinURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logrus.Warnf("flushing spans: %s", err)
			}
		}()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.discordSession()
		if err != nil {
			return err
		}

		notifier := a.notifier(session)
		service := a.formationService(notifier)
		responder := notify.NewResponder(a.store, session, notifier)

		teambot := bot.New(session, service, responder, a.store, bot.Options{
			AppID:         cfg.DiscordAppID,
			GuildID:       cfg.DiscordGuildID,
			AdminAddr:     cfg.AdminAddr,
			AdminToken:    cfg.AdminToken,
			SweepInterval: cfg.SuggestionSweepInterval,
			Registry:      a.registry,
		})
		return teambot.Run(ctx)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(runCmd)
}
