package main

import (
	"github.com/spf13/cobra"

	"github.com/LogicIQ/chicheck/sdk/go/storage"
)

func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect storage classes and volume claims",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "default-class",
		Short: "Show the default storage class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := storage.GetDefaultClass(chClient, commandContext(cmd))
			if err != nil {
				return err
			}
			return printValue(cmd, "storageClass", name)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pvc-size <pvc-name>",
		Short: "Show the storage requested by a persistent volume claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := storage.GetPVCSize(chClient, commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, "size", size)
		},
	})

	return cmd
}
