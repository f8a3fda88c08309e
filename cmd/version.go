// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set with -ldflags at build time
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of the application",
	Args:  cobra.NoArgs,
	// version needs no environment
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "version=%s commit=%s built=%s\n", Version, CommitSHA, BuildTime)
		return err
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(versionCmd)
}
