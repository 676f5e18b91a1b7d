// Package client provides the core chicheck SDK client for driving kubectl against
// a cluster running the ClickHouse operator.
//
// The client owns the command executor, the retry policy and the poll engine that
// every condition check in the sibling packages is built on. All configuration is
// passed in through Config; the package keeps no mutable globals.
//
// Example usage:
//
//	c := client.New(&client.Config{Namespace: "test"})
//
//	err := objects.WaitObjects(c, ctx, "demo", client.Triple{StatefulSets: 1, Pods: 1, Services: 1})
package client

import (
	"context"
	"time"

	"github.com/go-logr/logr"
)

const (
	DefaultNamespace      = "default"
	DefaultKubectl        = "kubectl"
	DefaultMaxRetries     = 10
	DefaultBackoffStep    = 5 * time.Second
	DefaultCommandTimeout = 60 * time.Second
	DefaultApplyTimeout   = 30 * time.Second
	DefaultDeleteTimeout  = 30 * time.Second
)

// SleepFunc blocks for d, returning early with an error if ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds client configuration options.
// Zero fields fall back to the Default* constants.
type Config struct {
	// Namespace all namespaced commands run in.
	Namespace string
	// Kubectl is the path of the cluster-management binary.
	Kubectl string
	// Kubeconfig is passed to kubectl as --kubeconfig when set.
	Kubeconfig string
	// MaxRetries is the attempt budget of the poll engine.
	MaxRetries int
	// BackoffStep is multiplied by the attempt index to get the wait before the next attempt.
	BackoffStep time.Duration
	// CommandTimeout bounds a single kubectl round-trip.
	CommandTimeout time.Duration
	// ApplyTimeout bounds kubectl apply.
	ApplyTimeout time.Duration
	// DeleteTimeout bounds kubectl delete -f.
	DeleteTimeout time.Duration
	// ManifestDir is the base directory relative manifest paths are resolved against.
	ManifestDir string
	// Logger receives progress and command logs. Defaults to logr.Discard().
	Logger logr.Logger
	// Sleep is used between poll attempts. Defaults to a context aware timer.
	Sleep SleepFunc
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		Namespace:      DefaultNamespace,
		Kubectl:        DefaultKubectl,
		MaxRetries:     DefaultMaxRetries,
		BackoffStep:    DefaultBackoffStep,
		CommandTimeout: DefaultCommandTimeout,
		ApplyTimeout:   DefaultApplyTimeout,
		DeleteTimeout:  DefaultDeleteTimeout,
		Logger:         logr.Discard(),
		Sleep:          sleepContext,
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}
	if cfg.Kubectl == "" {
		cfg.Kubectl = def.Kubectl
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = def.BackoffStep
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = def.CommandTimeout
	}
	if cfg.ApplyTimeout <= 0 {
		cfg.ApplyTimeout = def.ApplyTimeout
	}
	if cfg.DeleteTimeout <= 0 {
		cfg.DeleteTimeout = def.DeleteTimeout
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Sleep == nil {
		cfg.Sleep = def.Sleep
	}
	return cfg
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Client runs kubectl commands and condition checks against one namespace.
type Client struct {
	cfg  Config
	exec Executor
}

// New creates a client that shells out to the configured kubectl binary.
func New(cfg *Config) *Client {
	return NewWithExecutor(cfg, &ShellExecutor{})
}

// NewWithExecutor creates a client from an existing Executor.
// This is useful in tests and when commands must be routed through a wrapper.
func NewWithExecutor(cfg *Config, exec Executor) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Client{
		cfg:  cfg.withDefaults(),
		exec: exec,
	}
}

// Namespace returns the namespace that this client operates in.
func (c *Client) Namespace() string {
	return c.cfg.Namespace
}

// WithNamespace returns a new client configured to operate in the given namespace.
// The original client is not modified.
func (c *Client) WithNamespace(namespace string) *Client {
	cfg := c.cfg
	cfg.Namespace = namespace
	return &Client{
		cfg:  cfg.withDefaults(),
		exec: c.exec,
	}
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Executor returns the underlying command executor.
func (c *Client) Executor() Executor {
	return c.exec
}

// Logger returns the client's logger.
func (c *Client) Logger() logr.Logger {
	return c.cfg.Logger
}

// Options contains per-call overrides.
// Use the With* functions to create options in a fluent style.
type Options struct {
	// Namespace overrides the client namespace for one call
	Namespace string
	// AllNamespaces queries across every namespace
	AllNamespaces bool
	// ClusterScoped omits the namespace flag entirely
	ClusterScoped bool
	// Timeout bounds the kubectl round-trip
	Timeout time.Duration
	// TolerateFailure accepts a non-zero exit code instead of returning a TransportError
	TolerateFailure bool
	// TolerateTimeout accepts a timed out command instead of returning a TransportError
	TolerateTimeout bool
	// MaxRetries overrides the poll engine attempt budget
	MaxRetries int
}

// Option is a function that configures Options.
type Option func(*Options)

// InNamespace runs the call in the given namespace.
func InNamespace(namespace string) Option {
	return func(o *Options) {
		o.Namespace = namespace
	}
}

// InAllNamespaces runs the query with --all-namespaces.
func InAllNamespaces() Option {
	return func(o *Options) {
		o.AllNamespaces = true
	}
}

// ClusterScoped omits -n for commands on cluster scoped objects.
func ClusterScoped() Option {
	return func(o *Options) {
		o.ClusterScoped = true
	}
}

// WithTimeout sets the timeout of a single kubectl invocation.
//
// Example:
//
//	c.Kubectl(ctx, []string{"delete", "chi", "demo"}, client.WithTimeout(900*time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// TolerateFailure accepts non-zero exit codes.
func TolerateFailure() Option {
	return func(o *Options) {
		o.TolerateFailure = true
	}
}

// TolerateTimeout accepts a command that ran out of time.
func TolerateTimeout() Option {
	return func(o *Options) {
		o.TolerateTimeout = true
	}
}

// WithRetries sets the attempt budget for one wait.
func WithRetries(n int) Option {
	return func(o *Options) {
		o.MaxRetries = n
	}
}

func (c *Client) options(opts []Option) *Options {
	options := &Options{
		Namespace:  c.cfg.Namespace,
		Timeout:    c.cfg.CommandTimeout,
		MaxRetries: c.cfg.MaxRetries,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
