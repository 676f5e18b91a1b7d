package main

import (
	"github.com/spf13/cobra"

	"github.com/LogicIQ/chicheck/sdk/go/installation"
)

func newRunCmd() *cobra.Command {
	var (
		checksFile  string
		doNotDelete bool
	)

	cmd := &cobra.Command{
		Use:   "run <manifest>",
		Short: "Apply a manifest, check the installation and delete it",
		Long:  "Apply a ClickHouseInstallation manifest, wait for it to reach the expected status, run the checks declared in --checks and delete the installation afterwards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks installation.Checks
			if checksFile != "" {
				loaded, err := installation.LoadChecks(checksFile)
				if err != nil {
					return err
				}
				checks = *loaded
			}
			if doNotDelete {
				checks.DoNotDelete = true
			}

			name, err := installation.CreateAndCheck(chClient, commandContext(cmd), args[0], checks)
			if err != nil {
				return err
			}
			printOK(cmd, "chi '%s' passed all checks", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&checksFile, "checks", "", "YAML file declaring the checks to run")
	cmd.Flags().BoolVar(&doNotDelete, "do-not-delete", false, "Leave the installation in place")

	return cmd
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <manifest>...",
		Short: "Apply manifests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range args {
				if err := installation.Apply(chClient, commandContext(cmd), m); err != nil {
					return err
				}
				printOK(cmd, "applied %s", m)
			}
			return nil
		},
	}

	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <manifest>...",
		Short: "Delete the objects declared in manifests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range args {
				if err := installation.DeleteManifest(chClient, commandContext(cmd), m); err != nil {
					return err
				}
				printOK(cmd, "deleted %s", m)
			}
			return nil
		},
	}

	return cmd
}
