package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/output"
)

func NewResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources CONNECTION_ID TYPE",
		Short: "List resources of a connected cluster",
		Long: "List resources of a connected cluster. The backend serves " +
			strings.Join(knownResourceTypes(), ", ") + "; other types are passed through and rejected by the server.",
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return knownResourceTypes(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, _, err := buildClient(rt)
			if err != nil {
				return err
			}
			list, err := apiClient.GetResources(cmd.Context(), args[0], clusterapi.ResourceType(args[1]))
			if err != nil {
				return err
			}
			return rt.renderResources(list)
		},
	}
}

// NewPodsCommand is the shortcut for the backend's dedicated pods route.
func NewPodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pods CONNECTION_ID",
		Short: "List pods of a connected cluster",
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
			list, err := apiClient.GetPods(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.renderResources(list)
		},
	}
}

func (rt *runtimeState) renderResources(list *clusterapi.ResourceList) error {
	return rt.render(list, func(wide bool) error {
		if list.Count == 0 && len(list.Items) == 0 {
			_, _ = fmt.Fprintf(rt.Writer(), "No %s found.\n", list.ResourceType)
			return nil
		}
		return output.WriteResourceTable(rt.Writer(), list, wide)
	})
}

func knownResourceTypes() []string {
	var types []string
	for _, t := range sets.List(clusterapi.KnownResourceTypes) {
		types = append(types, string(t))
	}
	return types
}
