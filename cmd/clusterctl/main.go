package main

import (
	"os"

	clusterctlcmd "github.com/telekom/k8s-cluster-ui/pkg/clusterctl/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := clusterctlcmd.NewRootCommand(clusterctlcmd.DefaultConfig())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
