package requester

import (
	"encoding/base64"
	"fmt"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(headers executor.Headers) error
}

// HTTPAuthManager implements the AuthManager interface
type HTTPAuthManager struct {
	authType   config.AuthType
	authConfig map[string]string
}

// NewHTTPAuthManager creates a new HTTPAuthManager
func NewHTTPAuthManager(serviceConfig *config.EndpointConfig) *HTTPAuthManager {
	return &HTTPAuthManager{
		authType:   serviceConfig.AuthType,
		authConfig: serviceConfig.AuthConfig,
	}
}

// ApplyAuth adds authentication headers
func (a *HTTPAuthManager) ApplyAuth(headers executor.Headers) error {
	switch a.authType {
	case config.AuthTypeNone, "":
		return nil
	case config.AuthTypeBasic:
		credentials := a.authConfig["username"] + ":" + a.authConfig["password"]
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
	case config.AuthTypeBearer, config.AuthTypeOAuth2:
		token := a.authConfig["token"]
		if token == "" {
			return fmt.Errorf("%s auth requires a token", a.authType)
		}
		headers["Authorization"] = "Bearer " + token
	case config.AuthTypeAPIKey:
		header := a.authConfig["header"]
		if header == "" {
			header = defaultAPIKeyHeader
		}
		headers[header] = a.authConfig["key"]
	default:
		return fmt.Errorf("unsupported auth type: %s", a.authType)
	}
	return nil
}
