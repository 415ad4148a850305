package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// RateLimited reports whether resp signals an exhausted API quota: a 429,
// or a 403 carrying X-RateLimit-Remaining: 0.
func RateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	return err == nil && remaining == 0
}

// DecodeResponse decodes a JSON response into the target structure.
// Non-200 statuses become *errors.APIError attributed to source.
func DecodeResponse(ctx context.Context, resp *http.Response, source string, target any) error {
	defer closeBody(ctx, resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.String()
		}
		return &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(body),
			RateLimit:  RateLimited(resp),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
