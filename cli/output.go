package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// commandContext returns the command context, or a background context when the
// command is executed directly rather than through the root command.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// printValue writes a command result to the command output, as a bare value in
// text mode or as a single key object in json mode.
func printValue(cmd *cobra.Command, key string, value interface{}) error {
	out := cmd.OutOrStdout()
	if strings.ToLower(outputFormat) == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{key: value})
	}
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			if _, err := fmt.Fprintln(out, s); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(out, v)
		return err
	}
}

// printOK reports a passed check or completed action.
func printOK(cmd *cobra.Command, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log().Info(msg)
	if strings.ToLower(outputFormat) != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", msg)
	}
}
