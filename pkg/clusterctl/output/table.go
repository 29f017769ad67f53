package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
}

func WriteClusterTable(w io.Writer, clusters []clusterapi.ClusterConnection, wide bool) {
	tw := newTabWriter(w)
	if wide {
		_, _ = fmt.Fprintln(tw, "CONNECTION_ID\tNAME\tREGION\tVERSION\tSTATUS\tENDPOINT")
	} else {
		_, _ = fmt.Fprintln(tw, "CONNECTION_ID\tNAME\tREGION\tVERSION\tSTATUS")
	}
	for _, c := range clusters {
		info := c.ClusterInfo
		if wide {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ConnectionID, info.Name, dash(info.Region), dash(info.Version), dash(info.Status), dash(info.Endpoint))
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ConnectionID, info.Name, dash(info.Region), dash(info.Version), dash(info.Status))
	}
	_ = tw.Flush()
}

func WriteAvailableClusterTable(w io.Writer, clusters []clusterapi.AvailableCluster, wide bool) {
	tw := newTabWriter(w)
	if wide {
		_, _ = fmt.Fprintln(tw, "NAME\tSTATUS\tVERSION\tLOCATION\tCREATED\tENDPOINT")
	} else {
		_, _ = fmt.Fprintln(tw, "NAME\tSTATUS\tVERSION\tLOCATION")
	}
	for _, c := range clusters {
		if wide {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Name, dash(c.Status), dash(c.Version), dash(c.Location), formatTime(c.CreatedAt), dash(c.Endpoint))
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, dash(c.Status), dash(c.Version), dash(c.Location))
	}
	_ = tw.Flush()
}

func WriteProjectTable(w io.Writer, projects []clusterapi.Project) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "PROJECT_ID\tNAME")
	for _, p := range projects {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", p.ProjectID, dash(p.Name))
	}
	_ = tw.Flush()
}

func WriteZoneTable(w io.Writer, zones []string) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "ZONE")
	for _, z := range zones {
		_, _ = fmt.Fprintln(tw, z)
	}
	_ = tw.Flush()
}

// WriteResourceTable picks the table layout from the list's resource type.
// Types without a dedicated layout are rejected so callers can fall back to
// a structured format.
func WriteResourceTable(w io.Writer, list *clusterapi.ResourceList, wide bool) error {
	switch list.ResourceType {
	case clusterapi.ResourcePods:
		pods, err := list.Pods()
		if err != nil {
			return err
		}
		writePodTable(w, pods, wide)
	case clusterapi.ResourceDeployments:
		deployments, err := list.Deployments()
		if err != nil {
			return err
		}
		writeDeploymentTable(w, deployments)
	case clusterapi.ResourceServices:
		services, err := list.Services()
		if err != nil {
			return err
		}
		writeServiceTable(w, services)
	case clusterapi.ResourceNodes:
		nodes, err := list.Nodes()
		if err != nil {
			return err
		}
		writeNodeTable(w, nodes, wide)
	default:
		return fmt.Errorf("no table layout for resource type %q, use -o json or -o yaml", list.ResourceType)
	}
	return nil
}

func writePodTable(w io.Writer, pods []clusterapi.Pod, wide bool) {
	tw := newTabWriter(w)
	if wide {
		_, _ = fmt.Fprintln(tw, "NAMESPACE\tNAME\tSTATUS\tNODE\tCREATED\tCONTAINERS")
	} else {
		_, _ = fmt.Fprintln(tw, "NAMESPACE\tNAME\tSTATUS\tNODE\tCREATED")
	}
	for _, p := range pods {
		if wide {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Namespace, p.Name, dash(string(p.Status)), dash(p.Node), formatTime(p.CreatedAt), dash(strings.Join(p.Containers, ",")))
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Namespace, p.Name, dash(string(p.Status)), dash(p.Node), formatTime(p.CreatedAt))
	}
	_ = tw.Flush()
}

func writeDeploymentTable(w io.Writer, deployments []clusterapi.Deployment) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "NAMESPACE\tNAME\tREADY\tCREATED")
	for _, d := range deployments {
		desired := "-"
		if d.Replicas != nil {
			desired = fmt.Sprintf("%d", *d.Replicas)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d/%s\t%s\n", d.Namespace, d.Name, d.AvailableReplicas, desired, formatTime(d.CreatedAt))
	}
	_ = tw.Flush()
}

func writeServiceTable(w io.Writer, services []clusterapi.Service) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "NAMESPACE\tNAME\tTYPE\tCLUSTER_IP\tPORTS")
	for _, s := range services {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Namespace, s.Name, dash(string(s.Type)), dash(s.ClusterIP), formatPorts(s.Ports))
	}
	_ = tw.Flush()
}

func writeNodeTable(w io.Writer, nodes []clusterapi.Node, wide bool) {
	tw := newTabWriter(w)
	if wide {
		_, _ = fmt.Fprintln(tw, "NAME\tSTATUS\tROLES\tVERSION\tINSTANCE_TYPE\tZONE\tCREATED")
	} else {
		_, _ = fmt.Fprintln(tw, "NAME\tSTATUS\tROLES\tVERSION")
	}
	for _, n := range nodes {
		roles := dash(strings.Join(n.Roles, ","))
		if wide {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", n.Name, dash(n.Status), roles, dash(n.KubeletVersion), dash(n.InstanceType), dash(n.Zone), formatTime(n.CreatedAt))
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Name, dash(n.Status), roles, dash(n.KubeletVersion))
	}
	_ = tw.Flush()
}

// formatPorts renders ports kubectl style, e.g. "80:8080/TCP".
func formatPorts(ports []clusterapi.ServicePort) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		part := fmt.Sprintf("%d", p.Port)
		if target := p.TargetPort.String(); target != "" && target != "0" && target != part {
			part += ":" + target
		}
		if p.Protocol != "" {
			part += "/" + string(p.Protocol)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ",")
}

func formatTime(t *metav1.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
