package gke

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type AuthType string

const (
	AuthTypeServiceAccount AuthType = "service_account"
	AuthTypeGcloud         AuthType = "gcloud"
)

// Auth selects how the backend authenticates against Google Cloud. It is
// implemented by ServiceAccount and Gcloud only.
type Auth interface {
	Type() AuthType
	fields() map[string]any
}

// ServiceAccount authenticates with a service account key, passed through to
// the backend as the JSON text of the key file.
type ServiceAccount struct {
	Key string
}

func (ServiceAccount) Type() AuthType { return AuthTypeServiceAccount }

func (s ServiceAccount) fields() map[string]any {
	return map[string]any{
		"auth_type":           AuthTypeServiceAccount,
		"service_account_key": s.Key,
	}
}

func (ServiceAccount) String() string { return "service_account(redacted)" }

// Gcloud uses the credentials of the gcloud installation on the backend host.
type Gcloud struct{}

func (Gcloud) Type() AuthType { return AuthTypeGcloud }

func (Gcloud) fields() map[string]any {
	return map[string]any{"auth_type": AuthTypeGcloud}
}

// ServiceAccountFromFile reads a service account key file.
func ServiceAccountFromFile(path string) (ServiceAccount, error) {
	if path == "" {
		return ServiceAccount{}, errors.New("service account key path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("failed to read service account key: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return ServiceAccount{}, fmt.Errorf("service account key %s is empty", path)
	}
	return ServiceAccount{Key: key}, nil
}

// authForKey picks ServiceAccount when a key is given and Gcloud otherwise.
func authForKey(serviceAccountKey string) Auth {
	if serviceAccountKey != "" {
		return ServiceAccount{Key: serviceAccountKey}
	}
	return Gcloud{}
}
