package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
)

func TestConfigInit(t *testing.T) {
	h := newHarness(t)

	out, err := h.runRaw(t, "config", "init", "--server", h.url, "--provider", "gke", "--project", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Initialized config at "+h.configPath+"\n", out)

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.CurrentContext)
	require.Len(t, cfg.Contexts, 1)
	assert.Equal(t, config.Context{Name: "default", Server: h.url, Provider: config.ProviderGKE, Project: "proj-1"}, cfg.Contexts[0])

	_, err = h.runRaw(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config already exists")

	_, err = h.runRaw(t, "config", "init", "--force", "--provider", "aks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestConfigContexts(t *testing.T) {
	h := newHarness(t)

	out, err := h.runRaw(t, "config", "set-context", "local")
	require.NoError(t, err)
	assert.Equal(t, "Created context \"local\"\n", out)

	_, err = h.runRaw(t, "config", "set-context", "aws", "--server", "https://clusters.example.com", "--provider", "eks", "--region", "eu-west-1")
	require.NoError(t, err)

	out, err = h.runRaw(t, "config", "set-context", "aws", "--region", "us-east-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated context \"aws\"\n", out)

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	aws, err := cfg.FindContext("aws")
	require.NoError(t, err)
	assert.Equal(t, "https://clusters.example.com", aws.Server)
	assert.Equal(t, "us-east-1", aws.Region)
	local, err := cfg.FindContext("local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", local.Server)

	out, err = h.runRaw(t, "config", "current-context")
	require.NoError(t, err)
	assert.Equal(t, "local\n", out)

	out, err = h.runRaw(t, "config", "use-context", "aws")
	require.NoError(t, err)
	assert.Equal(t, "Switched to context \"aws\"\n", out)

	_, err = h.runRaw(t, "config", "use-context", "nope")
	require.Error(t, err)

	out, err = h.runRaw(t, "config", "get-contexts")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"local", "http://localhost:8000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"*", "aws", "https://clusters.example.com", "eks"}, strings.Fields(lines[2]))

	out, err = h.runRaw(t, "config", "view")
	require.NoError(t, err)
	assert.Contains(t, out, "current-context: aws")
	assert.Contains(t, out, "region: us-east-1")

	out, err = h.runRaw(t, "config", "delete-context", "aws")
	require.NoError(t, err)
	assert.Equal(t, "Deleted context \"aws\"\n", out)
	out, err = h.runRaw(t, "config", "current-context")
	require.NoError(t, err)
	assert.Equal(t, "local\n", out)
}

func TestCurrentContextWithoutConfig(t *testing.T) {
	h := newHarness(t)
	_, err := h.runRaw(t, "config", "current-context")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no context configured")

	_, statErr := os.Stat(h.configPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.runRaw(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "clusterctl "), out)

	out, err = h.runRaw(t, "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "gitCommit")

	out, err = h.runRaw(t, "version", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "goVersion:")

	_, err = h.runRaw(t, "version", "-o", "table")
	require.Error(t, err)
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.configPath, []byte("contexts: [broken"), 0o600))
	_, err := h.runRaw(t, "version")
	require.NoError(t, err)
}

func TestCompletionCommand(t *testing.T) {
	h := newHarness(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := h.runRaw(t, "completion", shell)
		require.NoError(t, err, shell)
		assert.NotEmpty(t, out, shell)
	}

	_, err := h.runRaw(t, "completion", "tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")

	_, err = h.runRaw(t, "completion")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
