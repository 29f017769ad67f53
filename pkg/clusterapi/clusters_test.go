package clusterapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/eks"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/fakeserver"
)

func newBackend(t *testing.T) (*fakeserver.Server, *clusterapi.Client) {
	t.Helper()
	backend := fakeserver.New(nil)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := clusterapi.New(clusterapi.WithServer(server.URL))
	require.NoError(t, err)
	return backend, client
}

func connectProd(t *testing.T, backend *fakeserver.Server, client *clusterapi.Client) string {
	t.Helper()
	backend.AddEKSCluster("us-east-1", clusterapi.AvailableCluster{Name: "prod", Status: "ACTIVE", Version: "1.29"})
	result, err := eks.NewFromBase(client).ConnectClusterWithProfile(context.Background(), "prod", "us-east-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	return result.ConnectionID
}

func TestCheckHealth(t *testing.T) {
	_, client := newBackend(t)

	status, err := client.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "API is running", status.Message)
}

func TestListClusters(t *testing.T) {
	backend, client := newBackend(t)

	list, err := client.ListClusters(context.Background())
	require.NoError(t, err)
	require.True(t, list.Success)
	require.Empty(t, list.Clusters)

	id := connectProd(t, backend, client)
	require.Equal(t, "us-east-1_prod", id)

	list, err = client.ListClusters(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Clusters, 1)
	assert.Equal(t, id, list.Clusters[0].ConnectionID)
	assert.Equal(t, "prod", list.Clusters[0].ClusterInfo.Name)
	assert.Equal(t, "us-east-1", list.Clusters[0].ClusterInfo.Region)
	assert.Equal(t, "1.29", list.Clusters[0].ClusterInfo.Version)
}

func TestDisconnectCluster(t *testing.T) {
	backend, client := newBackend(t)
	id := connectProd(t, backend, client)

	result, err := client.DisconnectCluster(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Disconnected from cluster prod", result.Message)

	last, ok := backend.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/clusters/us-east-1_prod/disconnect", last.Path)
	assert.Empty(t, last.Body)

	_, err = client.DisconnectCluster(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, "Cluster not connected", err.Error())
	assert.True(t, clusterapi.IsNotFound(err))
}

func TestGetResources(t *testing.T) {
	backend, client := newBackend(t)
	created := metav1.NewTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	backend.AddResources("prod", clusterapi.ResourcePods, clusterapi.Pod{
		Name: "web-0", Namespace: "default", Status: corev1.PodRunning,
		Containers: []string{"web", "sidecar"}, Node: "ip-10-0-0-1", CreatedAt: &created,
	})
	backend.AddResources("prod", clusterapi.ResourceDeployments, clusterapi.Deployment{
		Name: "web", Namespace: "default", Replicas: ptr.To[int32](3), AvailableReplicas: 2,
	})
	id := connectProd(t, backend, client)

	list, err := client.GetResources(context.Background(), id, clusterapi.ResourcePods)
	require.NoError(t, err)
	require.Equal(t, clusterapi.ResourcePods, list.ResourceType)
	require.Equal(t, 1, list.Count)
	pods, err := list.Pods()
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "web-0", pods[0].Name)
	assert.Equal(t, corev1.PodRunning, pods[0].Status)
	assert.Equal(t, []string{"web", "sidecar"}, pods[0].Containers)
	require.NotNil(t, pods[0].CreatedAt)
	assert.True(t, created.Equal(pods[0].CreatedAt))

	_, err = list.Nodes()
	require.Error(t, err)

	list, err = client.GetResources(context.Background(), id, clusterapi.ResourceDeployments)
	require.NoError(t, err)
	deployments, err := list.Deployments()
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, ptr.To[int32](3), deployments[0].Replicas)
	assert.Equal(t, int32(2), deployments[0].AvailableReplicas)

	list, err = client.GetResources(context.Background(), id, clusterapi.ResourceNodes)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
}

func TestGetResourcesPassesUnknownTypeThrough(t *testing.T) {
	backend, client := newBackend(t)
	id := connectProd(t, backend, client)

	_, err := client.GetResources(context.Background(), id, "configmaps")
	require.Error(t, err)
	assert.Equal(t, "Invalid resource type. Supported: pods, deployments, services, nodes", err.Error())

	last, ok := backend.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/clusters/us-east-1_prod/resources/configmaps", last.Path)
}

func TestGetResourcesNotConnected(t *testing.T) {
	_, client := newBackend(t)

	_, err := client.GetResources(context.Background(), "missing", clusterapi.ResourcePods)
	require.Error(t, err)
	assert.Equal(t, "Cluster not connected", err.Error())
	assert.Equal(t, http.StatusInternalServerError, clusterapi.StatusCode(err))
}

func TestGetPods(t *testing.T) {
	backend, client := newBackend(t)
	backend.AddResources("prod", clusterapi.ResourcePods, clusterapi.Pod{Name: "api-0", Namespace: "kube-system", Status: corev1.PodPending, Node: "Not scheduled"})
	id := connectProd(t, backend, client)

	list, err := client.GetPods(context.Background(), id)
	require.NoError(t, err)
	pods, err := list.Pods()
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "Not scheduled", pods[0].Node)

	last, _ := backend.LastRequest()
	assert.Equal(t, "/api/clusters/us-east-1_prod/pods", last.Path)
}

func TestServerFailureWithoutMessage(t *testing.T) {
	backend, client := newBackend(t)
	backend.Fail(clusterapi.EndpointHealth, http.StatusServiceUnavailable, map[string]any{"status": "down"})

	_, err := client.CheckHealth(context.Background())
	require.Error(t, err)
	assert.Equal(t, clusterapi.DefaultErrorMessage, err.Error())

	backend.Recover(clusterapi.EndpointHealth)
	_, err = client.CheckHealth(context.Background())
	require.NoError(t, err)
}
