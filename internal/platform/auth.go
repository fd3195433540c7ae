package platform

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// KeyPairAuth authenticates with the platform's paired custom headers.
type KeyPairAuth struct {
	APIKey string
	AppKey string
}

// Apply implements the Authenticator interface for KeyPairAuth.
func (a *KeyPairAuth) Apply(req *http.Request) {
	req.Header.Set("DD-API-KEY", a.APIKey)
	req.Header.Set("DD-APPLICATION-KEY", a.AppKey)
}
