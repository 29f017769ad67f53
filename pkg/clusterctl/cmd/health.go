package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, _, err := buildClient(rt)
			if err != nil {
				return err
			}
			status, err := apiClient.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			return rt.render(status, func(bool) error {
				_, _ = fmt.Fprintf(rt.Writer(), "%s: %s (%s)\n", status.Status, status.Message, apiClient.BaseURL())
				return nil
			})
		},
	}
}
