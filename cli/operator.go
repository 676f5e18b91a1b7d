package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
)

const operatorImagePath = "{.spec.template.spec.containers[0].image}"

func newOperatorCmd() *cobra.Command {
	var (
		deployment        string
		operatorNamespace string
		selector          string
	)

	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Check operator status",
		Long:  "Wait for the ClickHouse operator pod to run and report the operator version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperatorStatus(cmd, deployment, operatorNamespace, selector)
		},
	}

	cmd.Flags().StringVar(&deployment, "deployment", "clickhouse-operator", "Operator deployment name")
	cmd.Flags().StringVar(&operatorNamespace, "operator-namespace", "kube-system", "Operator namespace")
	cmd.Flags().StringVarP(&selector, "selector", "l", "app=clickhouse-operator", "Label selector of the operator pods")

	return cmd
}

func runOperatorStatus(cmd *cobra.Command, deployment, operatorNamespace, selector string) error {
	if errs := validation.IsDNS1123Label(operatorNamespace); len(errs) > 0 {
		return fmt.Errorf("invalid operator namespace %q: %s", operatorNamespace, strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1123Subdomain(deployment); len(errs) > 0 {
		return fmt.Errorf("invalid deployment name %q: %s", deployment, strings.Join(errs, "; "))
	}

	ctx := commandContext(cmd)
	inNs := client.InNamespace(operatorNamespace)

	if err := objects.WaitObject(chClient, ctx, "pod", "", selector, 1, inNs); err != nil {
		return err
	}

	image, err := field.GetJSONPath(chClient, ctx, "deployment", deployment, operatorImagePath, inNs)
	if err != nil {
		return err
	}
	version := operatorVersion(image)

	// Print formatted output for CLI users
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Operator Deployment: %s\n", deployment)
	fmt.Fprintf(out, "Namespace: %s\n", operatorNamespace)
	fmt.Fprintf(out, "Image: %s\n", image)
	fmt.Fprintf(out, "Version: %s\n", version)

	// Also log for structured logging
	log().Info("Operator status",
		zap.String("deployment", deployment),
		zap.String("namespace", operatorNamespace),
		zap.String("image", image),
		zap.String("version", version),
	)

	return nil
}

// operatorVersion returns the tag of an image reference, or "unknown" for an untagged image.
func operatorVersion(image string) string {
	if i := strings.LastIndex(image, "@"); i >= 0 {
		image = image[:i]
	}
	i := strings.LastIndex(image, ":")
	if i < 0 || strings.Contains(image[i:], "/") {
		return "unknown"
	}
	return image[i+1:]
}
