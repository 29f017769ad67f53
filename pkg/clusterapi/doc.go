// Package clusterapi implements the HTTP client for the cluster management
// backend. Client carries the request primitive and the operations shared by
// every cloud provider; the eks and gke subpackages compose it with the
// provider-specific connect and discovery calls.
package clusterapi
