package main

import (
	"os"
	"strings"
	"time"

	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

var (
	// Build-time variables
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"

	kubeconfig   string
	namespace    string
	kubectlPath  string
	manifestDir  string
	maxRetries   int
	backoffStep  time.Duration
	logLevel     string
	outputFormat string
	chClient     *client.Client
	logger       *zap.Logger
)

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chicheck",
		Short: "Test harness for the ClickHouse operator",
		Long:  "A CLI tool that drives kubectl to apply ClickHouseInstallation manifests and wait for the operator to reconcile them\n\nNamespace Detection:\n  - Auto-detects namespace when running in a pod\n  - Falls back to kubeconfig context or 'default'",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			return initClient(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig file")
	flags.StringVarP(&namespace, "namespace", "n", client.DefaultNamespace, "Kubernetes namespace (auto-detected if running in pod)")
	flags.StringVar(&kubectlPath, "kubectl", client.DefaultKubectl, "Path to the kubectl binary")
	flags.StringVar(&manifestDir, "manifest-dir", "", "Directory relative manifest paths are resolved against")
	flags.IntVar(&maxRetries, "max-retries", client.DefaultMaxRetries, "Attempt budget of every wait")
	flags.DurationVar(&backoffStep, "backoff-step", client.DefaultBackoffStep, "Wait after attempt i is i times this step")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json)")

	// Bind flags to viper - errors only occur if flag doesn't exist, which can't happen here
	for _, name := range []string{"kubeconfig", "namespace", "kubectl", "manifest-dir", "max-retries", "backoff-step", "log-level", "output"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newOperatorCmd())
	rootCmd.AddCommand(newWaitCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newChiCmd())
	rootCmd.AddCommand(newNamespaceCmd())
	rootCmd.AddCommand(newStorageCmd())

	return rootCmd
}

func execute() error {
	rootCmd := newRootCmd()

	viper.SetConfigName("chicheck")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.chicheck")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("CHICHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if file not found)
	_ = viper.ReadInConfig()

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		}
		return err
	}

	if logger != nil {
		if err := logger.Sync(); err != nil {
			// Ignore sync errors on stdout/stderr (common on some platforms)
			logger.Debug("Logger sync failed (non-fatal)", zap.Error(err))
		}
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func initLogger() error {
	var config zap.Config
	if strings.ToLower(outputFormat) == "json" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.TimeKey = ""
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(parseLevel(logLevel))
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	var err error
	logger, err = config.Build()
	return err
}

func initClient(cmd *cobra.Command) error {
	// Get values from viper (which includes flags, config file, and env vars)
	kubeconfig = viper.GetString("kubeconfig")
	namespace = viper.GetString("namespace")
	kubectlPath = viper.GetString("kubectl")
	manifestDir = viper.GetString("manifest-dir")
	maxRetries = viper.GetInt("max-retries")
	backoffStep = viper.GetDuration("backoff-step")
	logLevel = viper.GetString("log-level")
	outputFormat = viper.GetString("output")

	// Only auto-detect if namespace wasn't explicitly set via flag, env or config
	if !cmd.Flags().Changed("namespace") && !viper.InConfig("namespace") && os.Getenv("CHICHECK_NAMESPACE") == "" {
		namespace = detectNamespace()
	}

	chClient = client.New(newClientConfig())
	return nil
}

func newClientConfig() *client.Config {
	return &client.Config{
		Namespace:   namespace,
		Kubectl:     kubectlPath,
		Kubeconfig:  kubeconfig,
		MaxRetries:  maxRetries,
		BackoffStep: backoffStep,
		ManifestDir: manifestDir,
		Logger:      zapr.NewLogger(logger),
	}
}

func detectNamespace() string {
	// Try pod service account
	if ns := readPodNamespace(); ns != "" {
		logger.Debug("Auto-detected namespace from pod service account", zap.String("namespace", ns))
		return ns
	}

	// Try environment variables
	if ns := getNamespaceFromEnv(); ns != "" {
		logger.Debug("Auto-detected namespace from environment", zap.String("namespace", ns))
		return ns
	}

	// Try kubeconfig
	if ns := getNamespaceFromKubeconfig(); ns != "" {
		logger.Debug("Auto-detected namespace from kubeconfig context", zap.String("namespace", ns))
		return ns
	}

	logger.Debug("Using default namespace (no auto-detection available)")
	return client.DefaultNamespace
}

func readPodNamespace() string {
	if data, err := os.ReadFile("/var/run/secrets/kubernetes.io/serviceaccount/namespace"); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getNamespaceFromEnv() string {
	if ns := os.Getenv("POD_NAMESPACE"); ns != "" {
		return ns
	}
	return os.Getenv("NAMESPACE")
}

func getNamespaceFromKubeconfig() string {
	kubeconfigPath := kubeconfig
	if kubeconfigPath == "" {
		kubeconfigPath = clientcmd.RecommendedHomeFile
	}

	if config, err := clientcmd.LoadFromFile(kubeconfigPath); err == nil {
		if config.Contexts[config.CurrentContext] != nil {
			return config.Contexts[config.CurrentContext].Namespace
		}
	}
	return ""
}
