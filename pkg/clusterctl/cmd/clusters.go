package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/output"
)

func NewClustersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clusters",
		Aliases: []string{"cluster"},
		Short:   "Manage connected cluster sessions",
	}
	cmd.AddCommand(
		newClustersListCommand(),
		newClustersDisconnectCommand(),
	)
	return cmd
}

func newClustersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clusters connected on the backend",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, _, err := buildClient(rt)
			if err != nil {
				return err
			}
			list, err := apiClient.ListClusters(cmd.Context())
			if err != nil {
				return err
			}
			return rt.render(list, func(wide bool) error {
				if len(list.Clusters) == 0 {
					_, _ = fmt.Fprintln(rt.Writer(), "No clusters connected.")
					return nil
				}
				output.WriteClusterTable(rt.Writer(), list.Clusters, wide)
				return nil
			})
		},
	}
}

func newClustersDisconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect CONNECTION_ID",
		Short: "Close a cluster session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, _, err := buildClient(rt)
			if err != nil {
				return err
			}
			result, err := apiClient.DisconnectCluster(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.render(result, func(bool) error {
				_, _ = fmt.Fprintln(rt.Writer(), result.Message)
				return nil
			})
		},
	}
}
