package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LogicIQ/chicheck/sdk/go/client/fake"
)

func executeCommandWithOutput(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	// Create a buffer to capture logs
	var logBuf bytes.Buffer
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(&logBuf),
		zapcore.DebugLevel,
	)
	origLogger := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = origLogger })

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// nil args would make cobra fall back to the test binary's os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String() + logBuf.String(), err
}

// useFakeClient points the commands at a client backed by exec in namespace "test".
func useFakeClient(t *testing.T, exec *fake.Executor) *fake.Sleeper {
	t.Helper()

	origClient, origFormat := chClient, outputFormat
	t.Cleanup(func() {
		chClient = origClient
		outputFormat = origFormat
	})

	c, sleeper := fake.NewClient(exec, "test")
	chClient = c
	outputFormat = "text"
	return sleeper
}
