package main

import (
	"github.com/spf13/cobra"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read cluster state once",
	}

	cmd.AddCommand(newGetCountCmd())
	cmd.AddCommand(newGetObjectsCmd())
	cmd.AddCommand(newGetFieldCmd())
	cmd.AddCommand(newGetJSONPathCmd())
	cmd.AddCommand(newGetPodNamesCmd())
	cmd.AddCommand(newGetPodImageCmd())

	return cmd
}

func newGetCountCmd() *cobra.Command {
	var (
		selector      string
		allNamespaces bool
	)

	cmd := &cobra.Command{
		Use:   "count <kind> [name]",
		Short: "Count objects of a kind",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			var opts []client.Option
			if allNamespaces {
				opts = append(opts, client.InAllNamespaces())
			}
			n, err := objects.Count(chClient, commandContext(cmd), args[0], name, selector, opts...)
			if err != nil {
				return err
			}
			return printValue(cmd, "count", n)
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "l", "", "Label selector")
	cmd.Flags().BoolVarP(&allNamespaces, "all-namespaces", "A", false, "Count across all namespaces")

	return cmd
}

func newGetObjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objects <chi-name>",
		Short: "Count the statefulsets, pods and services of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := objects.CountResources(chClient, commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, "objects", []int{counts.StatefulSets, counts.Pods, counts.Services})
		},
	}

	return cmd
}

func newGetFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field <kind> <name> <path>",
		Short: "Read one field of an object, e.g. .status.status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := field.Get(chClient, commandContext(cmd), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printValue(cmd, "value", v)
		},
	}

	return cmd
}

func newGetJSONPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonpath <kind> <name> <template>",
		Short: "Evaluate a JSON-path template against an object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := field.GetJSONPath(chClient, commandContext(cmd), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printValue(cmd, "value", v)
		},
	}

	return cmd
}

func newGetPodNamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod-names <chi-name>",
		Short: "List the pods of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := pod.GetNames(chClient, commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, "pods", names)
		},
	}

	return cmd
}

func newGetPodImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod-image <chi-name>",
		Short: "Show the image of the first pod container of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := pod.GetImage(chClient, commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, "image", image)
		},
	}

	return cmd
}
