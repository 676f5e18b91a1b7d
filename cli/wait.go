package main

import (
	"fmt"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
	"github.com/LogicIQ/chicheck/sdk/go/installation"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
	"github.com/LogicIQ/chicheck/sdk/go/storage"
)

func newWaitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for cluster state",
		Long:  "Poll cluster state with linear backoff until it matches the expectation or the retry budget is spent",
	}

	cmd.AddCommand(newWaitObjectsCmd())
	cmd.AddCommand(newWaitCountCmd())
	cmd.AddCommand(newWaitFieldCmd())
	cmd.AddCommand(newWaitJSONPathCmd())
	cmd.AddCommand(newWaitStatusCmd())
	cmd.AddCommand(newWaitPodPhaseCmd())
	cmd.AddCommand(newWaitPVCSizeCmd())

	return cmd
}

func newWaitObjectsCmd() *cobra.Command {
	var expected client.Triple

	cmd := &cobra.Command{
		Use:   "objects <chi-name>",
		Short: "Wait for the statefulsets, pods and services of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chi := args[0]
			if err := objects.WaitObjects(chClient, commandContext(cmd), chi, expected); err != nil {
				return err
			}
			printOK(cmd, "chi '%s' has %s statefulsets, pods and services", chi, expected)
			return nil
		},
	}

	cmd.Flags().IntVar(&expected.StatefulSets, "statefulsets", 1, "Expected number of statefulsets")
	cmd.Flags().IntVar(&expected.Pods, "pods", 1, "Expected number of pods")
	cmd.Flags().IntVar(&expected.Services, "services", 1, "Expected number of services")

	return cmd
}

func newWaitCountCmd() *cobra.Command {
	var (
		selector string
		minCount int
	)

	cmd := &cobra.Command{
		Use:   "count <kind> [name]",
		Short: "Wait for at least a number of objects of a kind",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name := args[0], ""
			if len(args) == 2 {
				name = args[1]
			}
			if err := objects.WaitObject(chClient, commandContext(cmd), kind, name, selector, minCount); err != nil {
				return err
			}
			printOK(cmd, "at least %d %s(s) %s found", minCount, kind, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "l", "", "Label selector")
	cmd.Flags().IntVar(&minCount, "min", 1, "Minimum number of objects")

	return cmd
}

func newWaitFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field <kind> <name> <path> <value>",
		Short: "Wait for a field of an object, e.g. .status.phase, to equal a value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := field.Wait(chClient, commandContext(cmd), args[0], args[1], args[2], args[3]); err != nil {
				return err
			}
			printOK(cmd, "%s %s %s is %s", args[0], args[1], args[2], args[3])
			return nil
		},
	}

	return cmd
}

func newWaitJSONPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonpath <kind> <name> <template> <value>",
		Short: "Wait for a JSON-path template, e.g. {.status.phase}, to equal a value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := field.WaitJSONPath(chClient, commandContext(cmd), args[0], args[1], args[2], args[3]); err != nil {
				return err
			}
			printOK(cmd, "%s %s %s is %s", args[0], args[1], args[2], args[3])
			return nil
		},
	}

	return cmd
}

func newWaitStatusCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "status <chi-name>",
		Short: "Wait for the status of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := chiv1.InstallationPhase(status)
			if err := installation.WaitStatus(chClient, commandContext(cmd), args[0], phase); err != nil {
				return err
			}
			printOK(cmd, "chi '%s' is %s", args[0], phase)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(chiv1.InstallationPhaseCompleted), "Expected status")

	return cmd
}

func newWaitPodPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod-phase <pod-name> <phase>",
		Short: "Wait for a pod to reach a phase, e.g. Running",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := corev1.PodPhase(args[1])
			if err := pod.WaitPhase(chClient, commandContext(cmd), args[0], phase); err != nil {
				return err
			}
			printOK(cmd, "pod '%s' is %s", args[0], phase)
			return nil
		},
	}

	return cmd
}

func newWaitPVCSizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pvc-size <pvc-name> <size>",
		Short: "Wait for a persistent volume claim to request a size, e.g. 2Gi",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.WaitPVCSize(chClient, commandContext(cmd), args[0], args[1]); err != nil {
				return fmt.Errorf("pvc %s: %w", args[0], err)
			}
			printOK(cmd, "pvc '%s' requests %s", args[0], args[1])
			return nil
		},
	}

	return cmd
}
