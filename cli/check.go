package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"github.com/LogicIQ/chicheck/sdk/go/configmap"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
	"github.com/LogicIQ/chicheck/sdk/go/service"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check installation objects once",
		Long:  "Read state once and fail on the first mismatch. Wait for the installation status first.",
	}

	cmd.AddCommand(newCheckImageCmd())
	cmd.AddCommand(newCheckVolumesCmd())
	cmd.AddCommand(newCheckPortsCmd())
	cmd.AddCommand(newCheckAntiAffinityCmd())
	cmd.AddCommand(newCheckServiceCmd())
	cmd.AddCommand(newCheckConfigMapCmd())
	cmd.AddCommand(newCheckConfigMapsCmd())

	return cmd
}

func newCheckImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <chi-name> <image>",
		Short: "Check the image of the first pod container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pod.CheckImage(chClient, commandContext(cmd), args[0], args[1]); err != nil {
				return err
			}
			printOK(cmd, "pod image of chi '%s' is %s", args[0], args[1])
			return nil
		},
	}

	return cmd
}

func newCheckVolumesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volumes <chi-name> <mount-path>...",
		Short: "Check the first pod container mounts every path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pod.CheckVolumes(chClient, commandContext(cmd), args[0], args[1:]); err != nil {
				return err
			}
			printOK(cmd, "pod of chi '%s' mounts %v", args[0], args[1:])
			return nil
		},
	}

	return cmd
}

func parsePorts(args []string) ([]int32, error) {
	ports := make([]int32, 0, len(args))
	for _, a := range args {
		p, err := strconv.ParseInt(a, 10, 32)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid port %q", a)
		}
		ports = append(ports, int32(p))
	}
	return ports, nil
}

func newCheckPortsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports <chi-name> <port>...",
		Short: "Check the first pod container exposes exactly the ports",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := parsePorts(args[1:])
			if err != nil {
				return err
			}
			if err := pod.CheckPorts(chClient, commandContext(cmd), args[0], ports); err != nil {
				return err
			}
			printOK(cmd, "pod of chi '%s' exposes %v", args[0], ports)
			return nil
		},
	}

	return cmd
}

func newCheckAntiAffinityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anti-affinity <chi-name>",
		Short: "Check pods of the installation spread one per host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pod.CheckAntiAffinity(chClient, commandContext(cmd), args[0]); err != nil {
				return err
			}
			printOK(cmd, "podAntiAffinity of chi '%s' matches", args[0])
			return nil
		},
	}

	return cmd
}

func newCheckServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service <service-name> <type>",
		Short: "Check the type of a service, e.g. LoadBalancer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.Check(chClient, commandContext(cmd), args[0], corev1.ServiceType(args[1])); err != nil {
				return err
			}
			printOK(cmd, "service '%s' is %s", args[0], args[1])
			return nil
		},
	}

	return cmd
}

func newCheckConfigMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configmap <configmap-name> <key>...",
		Short: "Check a config-map carries every key",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configmap.Check(chClient, commandContext(cmd), args[0], args[1:]); err != nil {
				return err
			}
			printOK(cmd, "configmap '%s' contains %v", args[0], args[1:])
			return nil
		},
	}

	return cmd
}

func newCheckConfigMapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configmaps <chi-name>",
		Short: "Check the common config.d and users.d config-maps of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configmap.CheckInstallation(chClient, commandContext(cmd), args[0]); err != nil {
				return err
			}
			printOK(cmd, "configmaps of chi '%s' are complete", args[0])
			return nil
		},
	}

	return cmd
}
