package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/eks"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterctl/config"
)

// AWS variables read when --access-key-id is given without the matching
// secret parts, keeping secrets off the command line.
const (
	envAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envAWSSessionToken    = "AWS_SESSION_TOKEN"
)

type eksFlags struct {
	region          string
	profile         string
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
}

func (f *eksFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.region, "region", "", "AWS region (defaults to the context region)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "AWS profile known to the backend (defaults to the context profile, then \"default\")")
	cmd.Flags().StringVar(&f.accessKeyID, "access-key-id", "", "Authenticate with this access key instead of a profile")
	cmd.Flags().StringVar(&f.secretAccessKey, "secret-access-key", "", "Secret for --access-key-id (env "+envAWSSecretAccessKey+")")
	cmd.Flags().StringVar(&f.sessionToken, "session-token", "", "Optional session token for --access-key-id (env "+envAWSSessionToken+")")
	cmd.MarkFlagsMutuallyExclusive("profile", "access-key-id")
}

func (f *eksFlags) resolveRegion(ctxCfg *config.Context) string {
	return firstNonEmpty(f.region, ctxCfg.Region)
}

func (f *eksFlags) auth(ctxCfg *config.Context) (eks.Auth, error) {
	if f.accessKeyID == "" {
		if f.secretAccessKey != "" || f.sessionToken != "" {
			return nil, errors.New("--secret-access-key and --session-token require --access-key-id")
		}
		return eks.Profile{Name: firstNonEmpty(f.profile, ctxCfg.Profile)}, nil
	}
	return eks.Credentials{
		AccessKeyID:     f.accessKeyID,
		SecretAccessKey: firstNonEmpty(f.secretAccessKey, os.Getenv(envAWSSecretAccessKey)),
		SessionToken:    firstNonEmpty(f.sessionToken, os.Getenv(envAWSSessionToken)),
	}, nil
}

func NewEKSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eks",
		Short: "Connect to and discover AWS EKS clusters",
	}
	cmd.AddCommand(
		newEKSConnectCommand(),
		newEKSAvailableCommand(),
	)
	return cmd
}

func newEKSConnectCommand() *cobra.Command {
	var flags eksFlags
	cmd := &cobra.Command{
		Use:   "connect CLUSTER",
		Short: "Connect the backend to an EKS cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildEKSClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderEKS); err != nil {
				return err
			}
			auth, err := flags.auth(ctxCfg)
			if err != nil {
				return err
			}
			result, err := apiClient.Connect(cmd.Context(), args[0], flags.resolveRegion(ctxCfg), auth)
			if err != nil {
				return err
			}
			return rt.renderConnect(result)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newEKSAvailableCommand() *cobra.Command {
	var flags eksFlags
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List the EKS clusters visible in a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, ctxCfg, err := buildEKSClient(rt)
			if err != nil {
				return err
			}
			if err := checkProvider(ctxCfg, config.ProviderEKS); err != nil {
				return err
			}
			auth, err := flags.auth(ctxCfg)
			if err != nil {
				return err
			}
			result, err := apiClient.ListAvailableClusters(cmd.Context(), flags.resolveRegion(ctxCfg), auth)
			if err != nil {
				return err
			}
			return rt.renderAvailable(result)
		},
	}
	flags.bind(cmd)
	return cmd
}
