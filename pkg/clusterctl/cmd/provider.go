package cmd

import (
	"fmt"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/output"
)

// checkProvider rejects running provider commands against a context that is
// pinned to the other provider.
func checkProvider(ctxCfg *config.Context, provider string) error {
	if ctxCfg.Provider != "" && ctxCfg.Provider != provider {
		return fmt.Errorf("context %s is configured for %s, not %s", ctxCfg.Name, ctxCfg.Provider, provider)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (rt *runtimeState) renderConnect(result *clusterapi.ConnectResult) error {
	return rt.render(result, func(bool) error {
		_, _ = fmt.Fprintln(rt.Writer(), result.Message)
		_, _ = fmt.Fprintf(rt.Writer(), "Connection ID: %s\n", result.ConnectionID)
		return nil
	})
}

func (rt *runtimeState) renderAvailable(result *clusterapi.AvailableClusters) error {
	return rt.render(result, func(wide bool) error {
		if len(result.Clusters) == 0 {
			_, _ = fmt.Fprintln(rt.Writer(), "No clusters found.")
			return nil
		}
		output.WriteAvailableClusterTable(rt.Writer(), result.Clusters, wide)
		return nil
	})
}
