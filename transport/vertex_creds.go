package transport

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
)

// vertexScope is the OAuth2 scope Vertex AI's GenerateContent/Predict
// endpoints require for Application Default Credentials.
const vertexScope = "https://www.googleapis.com/auth/cloud-platform"

// DefaultVertexToken resolves an OAuth2 access token via Application
// Default Credentials: the GOOGLE_APPLICATION_CREDENTIALS service account
// file, gcloud's user credentials, or the GCE/GKE metadata server,
// whichever the environment provides.
func DefaultVertexToken(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, vertexScope)
	if err != nil {
		return "", &ConfigError{Reason: fmt.Sprintf("resolve application default credentials: %v", err)}
	}
	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", &ConfigError{Reason: fmt.Sprintf("fetch ADC access token: %v", err)}
	}
	return token.AccessToken, nil
}
