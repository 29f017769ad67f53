// Package gke adds the Google Kubernetes Engine connect, project, zone and
// discovery calls on top of the shared cluster API client.
package gke

import (
	"context"
	"net/http"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
)

const (
	EndpointProjects = "/projects"
	EndpointZones    = "/projects/{projectId}/zones"
)

type Client struct {
	*clusterapi.Client
}

func New(opts ...clusterapi.Option) (*Client, error) {
	base, err := clusterapi.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base}, nil
}

func NewFromBase(base *clusterapi.Client) *Client {
	return &Client{Client: base}
}

// Connect establishes a session with the named cluster.
func (c *Client) Connect(ctx context.Context, clusterName, projectID, zone string, auth Auth) (*clusterapi.ConnectResult, error) {
	if auth == nil {
		return nil, c.Reject(http.MethodPost, clusterapi.EndpointConnect, clusterapi.ErrAuthRequired)
	}
	body := auth.fields()
	body["cluster_name"] = clusterName
	body["project_id"] = projectID
	body["zone"] = zone

	var result clusterapi.ConnectResult
	if err := c.Do(ctx, clusterapi.Request{
		Method:   http.MethodPost,
		Endpoint: clusterapi.EndpointConnect,
		Body:     body,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConnectCluster connects with a service account key.
func (c *Client) ConnectCluster(ctx context.Context, clusterName, projectID, zone, serviceAccountKey string) (*clusterapi.ConnectResult, error) {
	return c.Connect(ctx, clusterName, projectID, zone, ServiceAccount{Key: serviceAccountKey})
}

func (c *Client) ConnectWithGcloudCredentials(ctx context.Context, clusterName, projectID, zone string) (*clusterapi.ConnectResult, error) {
	return c.Connect(ctx, clusterName, projectID, zone, Gcloud{})
}

func (c *Client) ListProjects(ctx context.Context) (*clusterapi.ProjectList, error) {
	var list clusterapi.ProjectList
	if err := c.Do(ctx, clusterapi.Request{Method: http.MethodGet, Endpoint: EndpointProjects}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListZones(ctx context.Context, projectID string) (*clusterapi.ZoneList, error) {
	var list clusterapi.ZoneList
	if err := c.Do(ctx, clusterapi.Request{
		Method:     http.MethodGet,
		Endpoint:   EndpointZones,
		PathParams: map[string]string{"projectId": projectID},
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListAvailableClusters lists clusters in projectID and zone. An empty
// serviceAccountKey falls back to gcloud credentials.
func (c *Client) ListAvailableClusters(ctx context.Context, projectID, zone, serviceAccountKey string) (*clusterapi.AvailableClusters, error) {
	return c.AvailableClusters(ctx, projectID, zone, authForKey(serviceAccountKey))
}

// AvailableClusters is ListAvailableClusters with an explicit auth variant.
// A nil auth means Gcloud.
func (c *Client) AvailableClusters(ctx context.Context, projectID, zone string, auth Auth) (*clusterapi.AvailableClusters, error) {
	if auth == nil {
		auth = Gcloud{}
	}
	body := auth.fields()
	body["project_id"] = projectID
	body["zone"] = zone

	var result clusterapi.AvailableClusters
	if err := c.Do(ctx, clusterapi.Request{
		Method:   http.MethodPost,
		Endpoint: clusterapi.EndpointAvailable,
		Body:     body,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
