package eks

type AuthType string

const (
	AuthTypeCredentials AuthType = "credentials"
	AuthTypeProfile     AuthType = "profile"

	// DefaultProfile is sent when a Profile carries no name.
	DefaultProfile = "default"
)

// Auth selects how the backend authenticates against AWS. It is implemented
// by Credentials and Profile only.
type Auth interface {
	Type() AuthType
	fields() map[string]any
}

// Credentials authenticates with a static access key. SessionToken is only
// sent when set.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

func (Credentials) Type() AuthType { return AuthTypeCredentials }

func (c Credentials) fields() map[string]any {
	f := map[string]any{
		"auth_type":             AuthTypeCredentials,
		"aws_access_key_id":     c.AccessKeyID,
		"aws_secret_access_key": c.SecretAccessKey,
	}
	if c.SessionToken != "" {
		f["aws_session_token"] = c.SessionToken
	}
	return f
}

// String masks the secret parts so credentials can be logged safely.
func (c Credentials) String() string {
	key := c.AccessKeyID
	if len(key) > 4 {
		key = key[:4] + "..."
	}
	return "credentials(" + key + ")"
}

// Profile authenticates with a named profile from the backend's AWS config.
type Profile struct {
	Name string
}

func (Profile) Type() AuthType { return AuthTypeProfile }

func (p Profile) fields() map[string]any {
	name := p.Name
	if name == "" {
		name = DefaultProfile
	}
	return map[string]any{
		"auth_type":    AuthTypeProfile,
		"profile_name": name,
	}
}
