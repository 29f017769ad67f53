package clusterapi

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type ClusterInfo struct {
	Name     string `json:"name"`
	Region   string `json:"region,omitempty"`
	Version  string `json:"version,omitempty"`
	Status   string `json:"status,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ClusterConnection is one established cluster session on the backend.
type ClusterConnection struct {
	ConnectionID string      `json:"connection_id"`
	ClusterInfo  ClusterInfo `json:"cluster_info"`
}

type ClusterList struct {
	Success  bool                `json:"success"`
	Clusters []ClusterConnection `json:"clusters"`
}

type ConnectResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
}

type DisconnectResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AvailableCluster is a cluster the provider reports as connectable.
type AvailableCluster struct {
	Name      string       `json:"name"`
	Status    string       `json:"status,omitempty"`
	Version   string       `json:"version,omitempty"`
	Endpoint  string       `json:"endpoint,omitempty"`
	Location  string       `json:"location,omitempty"`
	CreatedAt *metav1.Time `json:"created_at,omitempty"`
}

// AvailableClusters is the discovery result. EKS responses carry Region,
// GKE responses carry ProjectID and Zone.
type AvailableClusters struct {
	Success   bool               `json:"success"`
	Region    string             `json:"region,omitempty"`
	ProjectID string             `json:"project_id,omitempty"`
	Zone      string             `json:"zone,omitempty"`
	Clusters  []AvailableCluster `json:"clusters"`
	Count     int                `json:"count"`
}

type Project struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name,omitempty"`
}

type ProjectList struct {
	Success  bool      `json:"success"`
	Projects []Project `json:"projects"`
}

type ZoneList struct {
	Success   bool     `json:"success"`
	ProjectID string   `json:"project_id,omitempty"`
	Zones     []string `json:"zones"`
}
