package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// The version command needs neither a logger from flags nor a client.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			log().Info("Version info",
				zap.String("version", version),
				zap.String("commit", commit),
				zap.String("built", buildDate),
			)
			return printValue(cmd, "version", version+" (commit "+commit+", built "+buildDate+")")
		},
	}

	return cmd
}
