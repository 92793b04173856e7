package sourcegraph

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-ID"

	contentTypeJSON  = "application/json"
	authScheme       = "token "
	acceptEventsJSON = "text/event-stream, application/json"
)

// buildHeaders returns the headers sent on every request. It fails when the
// token or user agent contains bytes that are not valid in a header value.
func buildHeaders(accessToken, userAgent string) (http.Header, error) {
	headers := http.Header{}
	for name, value := range map[string]string{
		headerContentType:   contentTypeJSON,
		headerAuthorization: authScheme + accessToken,
		headerUserAgent:     userAgent,
	} {
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("%w for %s", ErrInvalidHeaderValue, name)
		}
		headers.Set(name, value)
	}
	return headers, nil
}
