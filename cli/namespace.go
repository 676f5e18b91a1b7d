package main

import (
	"github.com/spf13/cobra"

	nssdk "github.com/LogicIQ/chicheck/sdk/go/namespace"
)

func newNamespaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "namespace",
		Aliases: []string{"ns"},
		Short:   "Create and delete test namespaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := nssdk.Create(chClient, commandContext(cmd), args[0]); err != nil {
				return err
			}
			printOK(cmd, "namespace '%s' created", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a namespace without waiting past the delete timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := nssdk.Delete(chClient, commandContext(cmd), args[0]); err != nil {
				return err
			}
			printOK(cmd, "namespace '%s' deleted", args[0])
			return nil
		},
	})

	return cmd
}
