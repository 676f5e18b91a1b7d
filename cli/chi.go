package main

import (
	"github.com/spf13/cobra"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/installation"
)

func newChiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chi",
		Aliases: []string{"installation"},
		Short:   "Manage ClickHouseInstallation resources",
	}

	cmd.AddCommand(newChiListCmd())
	cmd.AddCommand(newChiStatusCmd())
	cmd.AddCommand(newChiNameCmd())
	cmd.AddCommand(newChiDeleteCmd())
	cmd.AddCommand(newChiDeleteAllCmd())
	cmd.AddCommand(newChiPatchCmd())

	return cmd
}

func newChiListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installations in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := installation.List(chClient, commandContext(cmd))
			if err != nil {
				return err
			}
			return printValue(cmd, "chi", names)
		},
	}

	return cmd
}

func newChiStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <chi-name>",
		Short: "Show the status of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := installation.GetStatus(chClient, commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, "status", string(status))
		},
	}

	return cmd
}

func newChiNameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name <manifest>",
		Short: "Show the name of the installation declared in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := installation.ReadName(installation.ResolvePath(chClient, args[0]))
			if err != nil {
				return err
			}
			return printValue(cmd, "name", name)
		},
	}

	return cmd
}

func newChiDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <chi-name>",
		Short: "Delete an installation and wait for its objects to disappear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := installation.Delete(chClient, commandContext(cmd), args[0]); err != nil {
				return err
			}
			printOK(cmd, "chi '%s' deleted", args[0])
			return nil
		},
	}

	return cmd
}

func newChiDeleteAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every installation in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := installation.DeleteAll(chClient, commandContext(cmd)); err != nil {
				return err
			}
			printOK(cmd, "all chi in namespace '%s' deleted", chClient.Namespace())
			return nil
		},
	}

	return cmd
}

func newChiPatchCmd() *cobra.Command {
	var (
		patchType string
		patch     string
	)

	cmd := &cobra.Command{
		Use:   "patch <chi-name>",
		Short: "Patch an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := chClient.Patch(commandContext(cmd), chiv1.ShortName, args[0], patchType, patch); err != nil {
				return err
			}
			printOK(cmd, "chi '%s' patched", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&patchType, "type", "merge", "Patch type (json, merge, strategic)")
	cmd.Flags().StringVarP(&patch, "patch", "p", "", "The patch to apply")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}
