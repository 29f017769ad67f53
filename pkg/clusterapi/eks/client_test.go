package eks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/fakeserver"
)

func newTestClient(t *testing.T) (*fakeserver.Server, *Client) {
	t.Helper()
	backend := fakeserver.New(nil)
	backend.AddEKSCluster("us-east-1", clusterapi.AvailableCluster{Name: "prod", Status: "ACTIVE", Version: "1.29", Endpoint: "https://prod.eks.example.com"})
	backend.AddEKSCluster("us-east-1", clusterapi.AvailableCluster{Name: "staging", Status: "CREATING", Version: "1.30"})
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := New(clusterapi.WithServer(server.URL))
	require.NoError(t, err)
	return backend, client
}

func lastBody(t *testing.T, backend *fakeserver.Server) string {
	t.Helper()
	last, ok := backend.LastRequest()
	require.True(t, ok)
	return string(last.Body)
}

func TestConnectClusterWithProfileDefaultsProfileName(t *testing.T) {
	backend, client := newTestClient(t)

	result, err := client.ConnectClusterWithProfile(context.Background(), "prod", "us-east-1", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "us-east-1_prod", result.ConnectionID)
	assert.Equal(t, "Successfully connected to cluster prod", result.Message)

	last, _ := backend.LastRequest()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/clusters/connect", last.Path)
	require.JSONEq(t, `{"cluster_name":"prod","region":"us-east-1","auth_type":"profile","profile_name":"default"}`, lastBody(t, backend))
}

func TestConnectClusterWithNamedProfile(t *testing.T) {
	backend, client := newTestClient(t)

	_, err := client.ConnectClusterWithProfile(context.Background(), "prod", "us-east-1", "ops")
	require.NoError(t, err)
	require.JSONEq(t, `{"cluster_name":"prod","region":"us-east-1","auth_type":"profile","profile_name":"ops"}`, lastBody(t, backend))
}

func TestConnectClusterWithCredentials(t *testing.T) {
	tests := []struct {
		name         string
		sessionToken string
		wantBody     string
	}{
		{
			name:     "without session token",
			wantBody: `{"cluster_name":"prod","region":"us-east-1","auth_type":"credentials","aws_access_key_id":"AKIAEXAMPLE","aws_secret_access_key":"secret"}`,
		},
		{
			name:         "with session token",
			sessionToken: "token",
			wantBody:     `{"cluster_name":"prod","region":"us-east-1","auth_type":"credentials","aws_access_key_id":"AKIAEXAMPLE","aws_secret_access_key":"secret","aws_session_token":"token"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, client := newTestClient(t)

			result, err := client.ConnectClusterWithCredentials(context.Background(), "prod", "us-east-1", "AKIAEXAMPLE", "secret", tt.sessionToken)
			require.NoError(t, err)
			assert.Equal(t, "us-east-1_prod", result.ConnectionID)
			require.JSONEq(t, tt.wantBody, lastBody(t, backend))
		})
	}
}

func TestConnectMissingCredentials(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.ConnectClusterWithCredentials(context.Background(), "prod", "us-east-1", "", "", "")
	require.Error(t, err)
	assert.Equal(t, "AWS credentials required.", err.Error())
	assert.Equal(t, http.StatusBadRequest, clusterapi.StatusCode(err))
}

func TestConnectUnknownCluster(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.ConnectClusterWithProfile(context.Background(), "ghost", "us-east-1", "")
	require.Error(t, err)
	assert.Equal(t, "Failed to connect to cluster: cluster ghost not found", err.Error())
	assert.Equal(t, http.StatusInternalServerError, clusterapi.StatusCode(err))
}

func TestConnectRequiresAuth(t *testing.T) {
	backend := fakeserver.New(nil)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	core, logs := observer.New(zap.DebugLevel)
	client, err := New(clusterapi.WithServer(server.URL), clusterapi.WithLogger(zap.New(core).Sugar()))
	require.NoError(t, err)

	_, err = client.Connect(context.Background(), "prod", "us-east-1", nil)
	require.ErrorIs(t, err, clusterapi.ErrAuthRequired)
	_, err = client.ListAvailableClusters(context.Background(), "us-east-1", nil)
	require.ErrorIs(t, err, clusterapi.ErrAuthRequired)
	require.Empty(t, backend.Requests())

	rejected := logs.FilterMessage("API request rejected").All()
	require.Len(t, rejected, 2)
	assert.Equal(t, http.MethodPost, rejected[0].ContextMap()["method"])
	assert.Equal(t, clusterapi.EndpointConnect, rejected[0].ContextMap()["endpoint"])
	assert.Equal(t, clusterapi.EndpointAvailable, rejected[1].ContextMap()["endpoint"])
}

func TestListAvailableClustersWithProfile(t *testing.T) {
	backend, client := newTestClient(t)

	result, err := client.ListAvailableClustersWithProfile(context.Background(), "us-east-1", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "us-east-1", result.Region)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, "prod", result.Clusters[0].Name)
	assert.Equal(t, "https://prod.eks.example.com", result.Clusters[0].Endpoint)

	last, _ := backend.LastRequest()
	assert.Equal(t, "/api/clusters/available", last.Path)
	require.JSONEq(t, `{"region":"us-east-1","auth_type":"profile","profile_name":"default"}`, string(last.Body))
}

func TestListAvailableClustersWithCredentials(t *testing.T) {
	backend, client := newTestClient(t)

	result, err := client.ListAvailableClustersWithCredentials(context.Background(), "eu-west-1", "AKIAEXAMPLE", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	require.JSONEq(t, `{"region":"eu-west-1","auth_type":"credentials","aws_access_key_id":"AKIAEXAMPLE","aws_secret_access_key":"secret"}`, lastBody(t, backend))

	_, err = client.ListAvailableClustersWithCredentials(context.Background(), "eu-west-1", "AKIAEXAMPLE", "secret", "token")
	require.NoError(t, err)
	require.JSONEq(t, `{"region":"eu-west-1","auth_type":"credentials","aws_access_key_id":"AKIAEXAMPLE","aws_secret_access_key":"secret","aws_session_token":"token"}`, lastBody(t, backend))
}

func TestSharedOperationsArePromoted(t *testing.T) {
	_, client := newTestClient(t)

	result, err := client.ConnectClusterWithProfile(context.Background(), "prod", "us-east-1", "")
	require.NoError(t, err)

	list, err := client.ListClusters(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Clusters, 1)

	_, err = client.DisconnectCluster(context.Background(), result.ConnectionID)
	require.NoError(t, err)

	health, err := client.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestCredentialsStringHidesSecrets(t *testing.T) {
	creds := Credentials{AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "secret", SessionToken: "token"}
	assert.Equal(t, "credentials(AKIA...)", creds.String())
	assert.NotContains(t, creds.String(), "secret")
	assert.Equal(t, AuthTypeCredentials, creds.Type())
	assert.Equal(t, AuthTypeProfile, Profile{}.Type())
}
