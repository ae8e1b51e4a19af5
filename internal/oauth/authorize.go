package oauth

import (
	"fmt"
	"net/url"
)

const (
	linkedinAuthorizeEndpoint  = "https://www.linkedin.com/oauth/v2/authorization"
	instagramAuthorizeEndpoint = "https://www.facebook.com/v20.0/dialog/oauth"
)

// App holds the provider app credentials needed to start an authorize flow.
type App struct {
	ClientID string
	Scopes   string
}

// AuthorizeURL builds the provider consent URL for platform. The state must
// come from StateStore.Issue.
func AuthorizeURL(platform string, app App, redirectURI, state string) (string, error) {
	var endpoint string
	switch platform {
	case "linkedin":
		endpoint = linkedinAuthorizeEndpoint
	case "instagram":
		endpoint = instagramAuthorizeEndpoint
	default:
		return "", fmt.Errorf("oauth: platform %q does not support connection", platform)
	}
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", app.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("scope", app.Scopes)
	return endpoint + "?" + q.Encode(), nil
}

// Connectable reports whether the app supports starting an OAuth flow for
// platform. Twitter and Facebook tiles render without a connect flow.
func Connectable(platform string) bool {
	return platform == "linkedin" || platform == "instagram"
}
