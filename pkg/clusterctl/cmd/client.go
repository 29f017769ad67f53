package cmd

import (
	"time"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/eks"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/gke"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
	"github.com/telekom/k8s-cluster-ui/pkg/version"
)

// defaultRequestTimeout applies when neither the config nor --timeout set one.
const defaultRequestTimeout = 30 * time.Second

// clientOptions resolves the connection settings with flag > env > context >
// default precedence. Env values were already folded into the overrides.
func (rt *runtimeState) clientOptions(ctxCfg *config.Context) ([]clusterapi.Option, error) {
	server := clusterapi.DefaultServer
	if ctxCfg.Server != "" {
		server = ctxCfg.Server
	}
	if rt.serverOverride != "" {
		server = rt.serverOverride
	}
	baseURL := clusterapi.DefaultBaseURL
	if ctxCfg.BaseURL != "" {
		baseURL = ctxCfg.BaseURL
	}
	if rt.baseURLOverride != "" {
		baseURL = rt.baseURLOverride
	}
	timeout, err := rt.cfg.TimeoutOrDefault(defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	if rt.timeoutOverride > 0 {
		timeout = rt.timeoutOverride
	}

	return []clusterapi.Option{
		clusterapi.WithServer(server),
		clusterapi.WithBaseURL(baseURL),
		clusterapi.WithTimeout(timeout),
		clusterapi.WithUserAgent(version.UserAgent()),
		clusterapi.WithTLSConfig(ctxCfg.CAFile, ctxCfg.InsecureSkipTLSVerify),
		clusterapi.WithLogger(rt.Logger().Sugar()),
	}, nil
}

func buildClient(rt *runtimeState) (*clusterapi.Client, *config.Context, error) {
	if err := rt.EnsureConfigLoaded(); err != nil {
		return nil, nil, err
	}
	ctxCfg, err := rt.ResolveContext()
	if err != nil {
		return nil, nil, err
	}
	opts, err := rt.clientOptions(ctxCfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := clusterapi.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, ctxCfg, nil
}

func buildEKSClient(rt *runtimeState) (*eks.Client, *config.Context, error) {
	base, ctxCfg, err := buildClient(rt)
	if err != nil {
		return nil, nil, err
	}
	return eks.NewFromBase(base), ctxCfg, nil
}

func buildGKEClient(rt *runtimeState) (*gke.Client, *config.Context, error) {
	base, ctxCfg, err := buildClient(rt)
	if err != nil {
		return nil, nil, err
	}
	return gke.NewFromBase(base), ctxCfg, nil
}
