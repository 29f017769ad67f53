package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clusterctl configuration",
	}
	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigViewCommand(),
		newConfigContextsCommand(),
		newConfigCurrentContextCommand(),
		newConfigUseContextCommand(),
		newConfigSetContextCommand(),
		newConfigDeleteContextCommand(),
	)
	return cmd
}

// contextFlags are the per-context settings shared by init and set-context.
type contextFlags struct {
	ctx config.Context
}

func (f *contextFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ctx.Server, "server", "", "Backend server URL")
	cmd.Flags().StringVar(&f.ctx.BaseURL, "base-url", "", "API base URL, absolute or relative to the server")
	cmd.Flags().StringVar(&f.ctx.Provider, "provider", "", "Pin the context to a provider: eks or gke")
	cmd.Flags().StringVar(&f.ctx.Region, "region", "", "Default AWS region")
	cmd.Flags().StringVar(&f.ctx.Profile, "profile", "", "Default AWS profile")
	cmd.Flags().StringVar(&f.ctx.Project, "project", "", "Default Google Cloud project")
	cmd.Flags().StringVar(&f.ctx.Zone, "zone", "", "Default compute zone")
	cmd.Flags().StringVar(&f.ctx.CAFile, "ca-file", "", "CA bundle for the backend's TLS certificate")
	cmd.Flags().BoolVar(&f.ctx.InsecureSkipTLSVerify, "insecure-skip-tls-verify", false, "Skip TLS verification")
}

// mergeInto copies the flags the user actually set onto ctx.
func (f *contextFlags) mergeInto(cmd *cobra.Command, ctx *config.Context) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("server", &ctx.Server, f.ctx.Server)
	set("base-url", &ctx.BaseURL, f.ctx.BaseURL)
	set("provider", &ctx.Provider, f.ctx.Provider)
	set("region", &ctx.Region, f.ctx.Region)
	set("profile", &ctx.Profile, f.ctx.Profile)
	set("project", &ctx.Project, f.ctx.Project)
	set("zone", &ctx.Zone, f.ctx.Zone)
	set("ca-file", &ctx.CAFile, f.ctx.CAFile)
	if cmd.Flags().Changed("insecure-skip-tls-verify") {
		ctx.InsecureSkipTLSVerify = f.ctx.InsecureSkipTLSVerify
	}
}

func newConfigInitCommand() *cobra.Command {
	var (
		contextName string
		flags       contextFlags
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a clusterctl config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			path := rt.configPathValue()
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists: %s", path)
				}
			}
			ctx := config.Context{Name: contextName, Server: clusterapi.DefaultServer}
			flags.mergeInto(cmd, &ctx)

			cfg := config.DefaultConfig()
			cfg.CurrentContext = contextName
			cfg.Contexts = []config.Context{ctx}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Initialized config at %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextName, "name", "default", "Context name")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	flags.bind(cmd)
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			// yaml.v2 keeps the file's own key names
			data, err := yaml.Marshal(rt.cfg)
			if err != nil {
				return err
			}
			_, err = rt.Writer().Write(data)
			return err
		},
	}
}

func newConfigContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-contexts",
		Short: "List configured contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			current := rt.cfg.CurrentContextOrDefault()
			tw := tabwriter.NewWriter(rt.Writer(), 2, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "CURRENT\tNAME\tSERVER\tPROVIDER")
			for _, ctx := range rt.cfg.Contexts {
				marker := ""
				if ctx.Name == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, ctx.Name, ctx.Server, ctx.Provider)
			}
			return tw.Flush()
		},
	}
}

func newConfigCurrentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Print the context in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name := rt.ResolveContextName()
			if name == "" {
				return fmt.Errorf("no context configured in %s", rt.configPathValue())
			}
			_, _ = fmt.Fprintln(rt.Writer(), name)
			return nil
		},
	}
}

func newConfigUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context NAME",
		Short: "Set the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if _, err := rt.cfg.FindContext(args[0]); err != nil {
				return err
			}
			rt.cfg.CurrentContext = args[0]
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Switched to context %q\n", args[0])
			return nil
		},
	}
}

func newConfigSetContextCommand() *cobra.Command {
	var flags contextFlags
	cmd := &cobra.Command{
		Use:   "set-context NAME",
		Short: "Create a context or update the given fields of an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			ctx := config.Context{Name: args[0], Server: clusterapi.DefaultServer}
			verb := "Created"
			if existing, err := rt.cfg.FindContext(args[0]); err == nil {
				ctx = *existing
				verb = "Updated"
			}
			flags.mergeInto(cmd, &ctx)
			rt.cfg.SetContext(ctx)
			if err := rt.cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s context %q\n", verb, args[0])
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newConfigDeleteContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-context NAME",
		Short: "Remove a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.cfg.DeleteContext(args[0]); err != nil {
				return err
			}
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Deleted context %q\n", args[0])
			return nil
		},
	}
}
