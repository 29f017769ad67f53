package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
)

func sampleClusters() clusterapi.ClusterList {
	return clusterapi.ClusterList{
		Success: true,
		Clusters: []clusterapi.ClusterConnection{{
			ConnectionID: "us-east-1_prod",
			ClusterInfo:  clusterapi.ClusterInfo{Name: "prod", Region: "us-east-1", Version: "1.29"},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		format  Format
		arg     string
		wantErr string
	}{
		{in: "table", format: FormatTable},
		{in: "wide", format: FormatWide},
		{in: "json", format: FormatJSON},
		{in: "yaml", format: FormatYAML},
		{in: "template={{.count}}", format: FormatTemplate, arg: "{{.count}}"},
		{in: "template=a=b", format: FormatTemplate, arg: "a=b"},
		{in: "template", wantErr: "requires a template"},
		{in: "json=x", wantErr: "takes no argument"},
		{in: "xml", wantErr: "unknown output format: xml"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			format, arg, err := ParseFormat(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.arg, arg)
		})
	}
	assert.True(t, FormatWide.Tabular())
	assert.False(t, FormatJSON.Tabular())
}

func TestWriteObjectJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteObject(buf, FormatJSON, sampleClusters()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	clusters := decoded["clusters"].([]any)
	require.Len(t, clusters, 1)
	assert.Equal(t, "us-east-1_prod", clusters[0].(map[string]any)["connection_id"])
}

func TestWriteObjectYAMLUsesJSONFieldNames(t *testing.T) {
	created := metav1.NewTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	buf := &bytes.Buffer{}
	require.NoError(t, WriteObject(buf, FormatYAML, clusterapi.AvailableCluster{Name: "prod", CreatedAt: &created}))

	out := buf.String()
	assert.Contains(t, out, "name: prod")
	assert.Contains(t, out, `created_at: "2024-03-01T12:00:00Z"`)
	assert.NotContains(t, out, "CreatedAt")
}

func TestWriteObjectRejectsTableFormats(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatWide, FormatTemplate, "xml"} {
		err := WriteObject(&bytes.Buffer{}, f, sampleClusters())
		require.Error(t, err, f)
	}
}

func TestWriteTemplate(t *testing.T) {
	buf := &bytes.Buffer{}
	tmpl := `{{range .clusters}}{{.connection_id | upper}} {{.cluster_info.region}}{{"\n"}}{{end}}`
	require.NoError(t, WriteTemplate(buf, tmpl, sampleClusters()))
	assert.Equal(t, "US-EAST-1_PROD us-east-1\n", buf.String())
}

func TestWriteTemplateErrors(t *testing.T) {
	err := WriteTemplate(&bytes.Buffer{}, "{{.clusters", sampleClusters())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")

	err = WriteTemplate(&bytes.Buffer{}, "{{.missing}}", sampleClusters())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render template")
}
