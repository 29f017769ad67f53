package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
	"github.com/telekom/k8s-cluster-ui/pkg/system"
)

// Environment fallbacks for the persistent flags.
const (
	EnvContext = "CLUSTERCTL_CONTEXT"
	EnvOutput  = "CLUSTERCTL_OUTPUT"
	EnvServer  = "CLUSTERCTL_SERVER"
	EnvBaseURL = "CLUSTERCTL_BASE_URL"
	EnvTimeout = "CLUSTERCTL_TIMEOUT"
	EnvVerbose = "CLUSTERCTL_VERBOSE"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	// LogWriter receives verbose request logs. Defaults to stderr so that
	// structured output on OutputWriter stays parseable.
	LogWriter io.Writer
}

type runtimeState struct {
	configPath      string
	cfg             *config.Config
	contextOverride string
	outputFormat    string
	serverOverride  string
	baseURLOverride string
	timeoutOverride time.Duration
	verbose         bool
	writer          io.Writer
	logWriter       io.Writer
	log             *zap.Logger
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
		LogWriter:    os.Stderr,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter, logWriter: cfg.LogWriter}

	root := &cobra.Command{
		Use:          "clusterctl",
		Short:        "Connect to and browse EKS and GKE clusters through the cluster management API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.applyEnv(cmd); err != nil {
				return err
			}
			rt.log = system.NewCLILogger(rt.LogWriter(), rt.verbose)

			if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return rt.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file (env "+config.EnvConfig+")")
	root.PersistentFlags().StringVarP(&rt.contextOverride, "context", "c", "", "Context name override")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, wide, json, yaml, template=TEMPLATE")
	root.PersistentFlags().StringVar(&rt.serverOverride, "server", "", "Backend server URL, e.g. http://localhost:8000")
	root.PersistentFlags().StringVar(&rt.baseURLOverride, "base-url", "", "API base URL, absolute or relative to the server (default /api)")
	root.PersistentFlags().DurationVar(&rt.timeoutOverride, "timeout", 0, "Request timeout, e.g. 30s")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Log every API request to stderr")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewConfigCommand(),
		NewHealthCommand(),
		NewClustersCommand(),
		NewResourcesCommand(),
		NewPodsCommand(),
		NewEKSCommand(),
		NewGKECommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// applyEnv fills every flag the user did not set from its environment
// variable.
func (rt *runtimeState) applyEnv(cmd *cobra.Command) error {
	if rt.configPath == "" {
		rt.configPath = config.DefaultConfigPath()
	}
	if rt.contextOverride == "" {
		rt.contextOverride = os.Getenv(EnvContext)
	}
	if rt.outputFormat == "" {
		rt.outputFormat = os.Getenv(EnvOutput)
	}
	if rt.serverOverride == "" {
		rt.serverOverride = os.Getenv(EnvServer)
	}
	if rt.baseURLOverride == "" {
		rt.baseURLOverride = os.Getenv(EnvBaseURL)
	}
	if !cmd.Flags().Changed("timeout") {
		if env := os.Getenv(EnvTimeout); env != "" {
			d, err := time.ParseDuration(env)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
			}
			rt.timeoutOverride = d
		}
	}
	if !rt.verbose {
		rt.verbose = strings.EqualFold(os.Getenv(EnvVerbose), "true")
	}
	return nil
}

// loadConfig reads the config file. A missing file is not an error: the
// built-in defaults target a backend on localhost.
func (rt *runtimeState) loadConfig() error {
	cfg, err := config.Load(rt.configPathValue())
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		def := config.DefaultConfig()
		cfg = &def
	default:
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", rt.configPathValue(), err)
	}
	rt.cfg = cfg
	return nil
}

func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	return rt.loadConfig()
}

func (rt *runtimeState) ResolveContextName() string {
	if rt.contextOverride != "" {
		return rt.contextOverride
	}
	if rt.cfg != nil {
		return rt.cfg.CurrentContextOrDefault()
	}
	return ""
}

// ResolveContext returns the selected context, or an empty one when the
// config defines none. Naming a context that does not exist is an error.
func (rt *runtimeState) ResolveContext() (*config.Context, error) {
	if rt.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	name := rt.ResolveContextName()
	if name == "" {
		return &config.Context{}, nil
	}
	return rt.cfg.FindContext(name)
}

func (rt *runtimeState) OutputFormat() string {
	if rt.outputFormat != "" {
		return rt.outputFormat
	}
	if rt.cfg != nil && rt.cfg.Settings.OutputFormat != "" {
		return rt.cfg.Settings.OutputFormat
	}
	return "table"
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) LogWriter() io.Writer {
	if rt.logWriter != nil {
		return rt.logWriter
	}
	return os.Stderr
}

func (rt *runtimeState) Logger() *zap.Logger {
	if rt.log != nil {
		return rt.log
	}
	return zap.NewNop()
}

func (rt *runtimeState) configPathValue() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}
