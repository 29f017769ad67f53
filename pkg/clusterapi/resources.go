package clusterapi

import (
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/sets"
)

type ResourceType string

const (
	ResourcePods        ResourceType = "pods"
	ResourceDeployments ResourceType = "deployments"
	ResourceServices    ResourceType = "services"
	ResourceNodes       ResourceType = "nodes"
)

// KnownResourceTypes lists the resource types the backend serves. The client
// does not enforce it; GetResources passes any type through.
var KnownResourceTypes = sets.New(ResourcePods, ResourceDeployments, ResourceServices, ResourceNodes)

// ResourceList holds the formatted items of one resource type. Items stay
// raw until one of the typed views is requested.
type ResourceList struct {
	Success      bool              `json:"success"`
	ResourceType ResourceType      `json:"resource_type"`
	Count        int               `json:"count"`
	Items        []json.RawMessage `json:"items"`
}

type Pod struct {
	Name       string          `json:"name"`
	Namespace  string          `json:"namespace"`
	Status     corev1.PodPhase `json:"status"`
	Containers []string        `json:"containers"`
	Node       string          `json:"node"`
	CreatedAt  *metav1.Time    `json:"created_at,omitempty"`
}

type Deployment struct {
	Name              string       `json:"name"`
	Namespace         string       `json:"namespace"`
	Replicas          *int32       `json:"replicas"`
	AvailableReplicas int32        `json:"available_replicas"`
	CreatedAt         *metav1.Time `json:"created_at,omitempty"`
}

type ServicePort struct {
	Port       int32              `json:"port"`
	TargetPort intstr.IntOrString `json:"target_port"`
	Protocol   corev1.Protocol    `json:"protocol"`
}

type Service struct {
	Name      string             `json:"name"`
	Namespace string             `json:"namespace"`
	Type      corev1.ServiceType `json:"type"`
	ClusterIP string             `json:"cluster_ip"`
	Ports     []ServicePort      `json:"ports"`
	CreatedAt *metav1.Time       `json:"created_at,omitempty"`
}

type Node struct {
	Name           string       `json:"name"`
	Status         string       `json:"status"`
	Roles          []string     `json:"roles"`
	InstanceType   string       `json:"instance_type"`
	Zone           string       `json:"zone"`
	KubeletVersion string       `json:"kubelet_version"`
	CreatedAt      *metav1.Time `json:"created_at,omitempty"`
}

func (l *ResourceList) Pods() ([]Pod, error) {
	return decodeItems[Pod](l, ResourcePods)
}

func (l *ResourceList) Deployments() ([]Deployment, error) {
	return decodeItems[Deployment](l, ResourceDeployments)
}

func (l *ResourceList) Services() ([]Service, error) {
	return decodeItems[Service](l, ResourceServices)
}

func (l *ResourceList) Nodes() ([]Node, error) {
	return decodeItems[Node](l, ResourceNodes)
}

func decodeItems[T any](l *ResourceList, want ResourceType) ([]T, error) {
	if l.ResourceType != "" && l.ResourceType != want {
		return nil, fmt.Errorf("resource list holds %s, not %s", l.ResourceType, want)
	}
	out := make([]T, 0, len(l.Items))
	for i, raw := range l.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s item %d: %w", want, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}
