package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/gke"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/output"
)

type gkeFlags struct {
	project string
	zone    string
	keyFile string
}

func (f *gkeFlags) bind(cmd *cobra.Command, withZone bool) {
	cmd.Flags().StringVar(&f.project, "project", "", "Google Cloud project ID (defaults to the context project)")
	if withZone {
		cmd.Flags().StringVar(&f.zone, "zone", "", "Compute zone (defaults to the context zone)")
		cmd.Flags().StringVar(&f.keyFile, "key-file", "", "Service account key file; without it the backend's gcloud credentials are used")
	}
}

func (f *gkeFlags) auth() (gke.Auth, error) {
	if f.keyFile == "" {
		return gke.Gcloud{}, nil
	}
	sa, err := gke.ServiceAccountFromFile(f.keyFile)
	if err != nil {
		return nil, err
	}
	return sa, nil
}

func NewGKECommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gke",
		Short: "Connect to and discover Google Kubernetes Engine clusters",
	}
	cmd.AddCommand(
		newGKEConnectCommand(),
		newGKEAvailableCommand(),
		newGKEProjectsCommand(),
		newGKEZonesCommand(),
	)
	return cmd
}

func newGKEConnectCommand() *cobra.Command {
	var flags gkeFlags
	cmd := &cobra.Command{
		Use:   "connect CLUSTER",
		Short: "Connect the backend to a GKE cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildGKEClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderGKE); err != nil {
				return err
			}
			auth, err := flags.auth()
			if err != nil {
				return err
			}
			result, err := apiClient.Connect(cmd.Context(), args[0],
				firstNonEmpty(flags.project, ctxCfg.Project), firstNonEmpty(flags.zone, ctxCfg.Zone), auth)
			if err != nil {
				return err
			}
			return rt.renderConnect(result)
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newGKEAvailableCommand() *cobra.Command {
	var flags gkeFlags
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List the GKE clusters in a project zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildGKEClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderGKE); err != nil {
				return err
			}
			auth, err := flags.auth()
			if err != nil {
				return err
			}
			result, err := apiClient.AvailableClusters(cmd.Context(),
				firstNonEmpty(flags.project, ctxCfg.Project), firstNonEmpty(flags.zone, ctxCfg.Zone), auth)
			if err != nil {
				return err
			}
			return rt.renderAvailable(result)
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newGKEProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects the backend can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildGKEClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderGKE); err != nil {
				return err
			}
			projects, err := apiClient.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return rt.render(projects, func(bool) error {
				output.WriteProjectTable(rt.Writer(), projects.Projects)
				return nil
			})
		},
	}
}

func newGKEZonesCommand() *cobra.Command {
	var flags gkeFlags
	cmd := &cobra.Command{
		Use:   "zones [PROJECT]",
		Short: "List the compute zones of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildGKEClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderGKE); err != nil {
				return err
			}
			project := flags.project
			if len(args) == 1 {
				project = args[0]
			}
			project = firstNonEmpty(project, ctxCfg.Project)
			if project == "" {
				return errors.New("project is required: pass PROJECT, --project or set it on the context")
			}
			zones, err := apiClient.ListZones(cmd.Context(), project)
			if err != nil {
				return err
			}
			return rt.render(zones, func(bool) error {
				output.WriteZoneTable(rt.Writer(), zones.Zones)
				return nil
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}
