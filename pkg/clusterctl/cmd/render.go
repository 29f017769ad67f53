package cmd

import (
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/output"
)

// render writes obj in the selected output format. table draws the table and
// wide formats; it receives true for wide.
func (rt *runtimeState) render(obj any, table func(wide bool) error) error {
	format, arg, err := output.ParseFormat(rt.OutputFormat())
	if err != nil {
		return err
	}
	switch {
	case format == output.FormatTemplate:
		return output.WriteTemplate(rt.Writer(), arg, obj)
	case format.Tabular():
		return table(format == output.FormatWide)
	default:
		return output.WriteObject(rt.Writer(), format, obj)
	}
}
