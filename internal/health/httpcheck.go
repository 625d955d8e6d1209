// Package health provides a pre-flight connectivity check
// against the intelligence API.
package health

import (
	"context"
	"fmt"
	"net/http"
)

// CheckHTTP verifies the API base URL is reachable over HTTPS.
// Non-success statuses are fine here: authentication and routing are
// checked per request later, this only catches network level problems
// before the run starts.
func CheckHTTP(ctx context.Context, client *http.Client, baseURL string) (err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	_ = response.Body.Close()

	return nil
}
