// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates or updates the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// newApp migrates on open
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "database %s migrated\n", cfg.DatabaseType)
		return err
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Marks pending suggestions past their deadline as expired",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		scope := envelope.NewRootScope(ctx, "cmd.expire", "")
		defer scope.Finish()

		expired, err := a.store.ExpireSuggestions(scope, time.Now())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d suggestions expired\n", expired)
		return err
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <discord-user-id> <true|false>",
	Short: "Opens or closes a participant to team suggestions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		available, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("availability must be true or false: %w", err)
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		scope := envelope.NewRootScope(ctx, "cmd.availability", "")
		defer scope.Finish()

		if err = a.store.SetAvailability(scope, args[0], available); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "participant %s available=%t\n", args[0], available)
		return err
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(migrateCmd, expireCmd, availabilityCmd)
}
