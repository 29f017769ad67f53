// Package eks adds the AWS EKS connect and discovery calls on top of the
// shared cluster API client.
package eks

import (
	"context"
	"net/http"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
)

// Client is the EKS flavour of the cluster API client. The shared operations
// (ListClusters, DisconnectCluster, GetResources, CheckHealth) are promoted
// from the embedded base client.
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

// NewFromBase wraps an existing base client.
func NewFromBase(base *clusterapi.Client) *Client {
	return &Client{Client: base}
}

// Connect establishes a session with the named cluster.
func (c *Client) Connect(ctx context.Context, clusterName, region string, auth Auth) (*clusterapi.ConnectResult, error) {
	if auth == nil {
		return nil, c.Reject(http.MethodPost, clusterapi.EndpointConnect, clusterapi.ErrAuthRequired)
	}
	body := auth.fields()
	body["cluster_name"] = clusterName
	body["region"] = region

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

func (c *Client) ConnectClusterWithCredentials(ctx context.Context, clusterName, region, accessKeyID, secretAccessKey, sessionToken string) (*clusterapi.ConnectResult, error) {
	return c.Connect(ctx, clusterName, region, Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
	})
}

// ConnectClusterWithProfile connects using an AWS profile; an empty
// profileName means DefaultProfile.
func (c *Client) ConnectClusterWithProfile(ctx context.Context, clusterName, region, profileName string) (*clusterapi.ConnectResult, error) {
	return c.Connect(ctx, clusterName, region, Profile{Name: profileName})
}

// ListAvailableClusters lists the EKS clusters visible in region.
func (c *Client) ListAvailableClusters(ctx context.Context, region string, auth Auth) (*clusterapi.AvailableClusters, error) {
	if auth == nil {
		return nil, c.Reject(http.MethodPost, clusterapi.EndpointAvailable, clusterapi.ErrAuthRequired)
	}
	body := auth.fields()
	body["region"] = region

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

func (c *Client) ListAvailableClustersWithCredentials(ctx context.Context, region, accessKeyID, secretAccessKey, sessionToken string) (*clusterapi.AvailableClusters, error) {
	return c.ListAvailableClusters(ctx, region, Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
	})
}

func (c *Client) ListAvailableClustersWithProfile(ctx context.Context, region, profileName string) (*clusterapi.AvailableClusters, error) {
	return c.ListAvailableClusters(ctx, region, Profile{Name: profileName})
}
