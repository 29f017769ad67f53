// Package cmd implements the cobra command tree of clusterctl: connecting
// EKS and GKE clusters through the cluster management backend, listing and
// disconnecting sessions, browsing cluster resources and managing the local
// context configuration.
package cmd
