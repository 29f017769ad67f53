package clusterapi

import (
	"context"
)

const (
	EndpointClusters   = "/clusters"
	EndpointConnect    = "/clusters/connect"
	EndpointAvailable  = "/clusters/available"
	EndpointDisconnect = "/clusters/{connectionId}/disconnect"
	EndpointResources  = "/clusters/{connectionId}/resources/{resourceType}"
	EndpointPods       = "/clusters/{connectionId}/pods"
	EndpointHealth     = "/health"
)

// ListClusters returns the clusters the backend currently holds sessions for.
func (c *Client) ListClusters(ctx context.Context) (*ClusterList, error) {
	var list ClusterList
	if err := c.get(ctx, EndpointClusters, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DisconnectCluster closes the session identified by connectionID. The
// request carries no body.
func (c *Client) DisconnectCluster(ctx context.Context, connectionID string) (*DisconnectResult, error) {
	var result DisconnectResult
	params := map[string]string{"connectionId": connectionID}
	if err := c.post(ctx, EndpointDisconnect, params, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResources fetches resources of the given type from a connected cluster.
// The type is passed through unvalidated; see KnownResourceTypes.
func (c *Client) GetResources(ctx context.Context, connectionID string, resourceType ResourceType) (*ResourceList, error) {
	var list ResourceList
	params := map[string]string{
		"connectionId": connectionID,
		"resourceType": string(resourceType),
	}
	if err := c.get(ctx, EndpointResources, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPods uses the backend's pods shortcut route.
func (c *Client) GetPods(ctx context.Context, connectionID string) (*ResourceList, error) {
	var list ResourceList
	if err := c.get(ctx, EndpointPods, map[string]string{"connectionId": connectionID}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.get(ctx, EndpointHealth, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
