// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/matchmaker"
)

var formDryRun bool

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Runs one team formation and prints the report as JSON",
	Long: "Runs one team formation. Suggestions are saved and, when DISCORD_TOKEN is set, " +
		"sent to the participants. With --dry-run nothing is saved or sent.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		scope := envelope.NewRootScope(ctx, "cmd.form", "")
		defer scope.Finish()

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		if formDryRun {
			result, err := a.formationService(nil).Preview(scope)
			if err != nil {
				return err
			}
			return encoder.Encode(result)
		}

		var notifier matchmaker.Notifier
		if session, err := a.discordSession(); err == nil {
			notifier = a.notifier(session)
		} else {
			scope.Log.Warnf("suggestions will not be sent: %s", err)
		}

		report, err := a.formationService(notifier).Execute(scope)
		if err != nil {
			return err
		}
		return encoder.Encode(report)
	},
}

//nolint:gochecknoinits
func init() {
	formCmd.Flags().BoolVar(&formDryRun, "dry-run", false, "form teams without saving or sending suggestions")
	rootCmd.AddCommand(formCmd)
}
