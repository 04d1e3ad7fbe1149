package request

import (
	"log/slog"
	"net/http"
	"net/url"
)

// QueryParam extracts the given query parameter directly from the URL, never from an
// encoded body.
func QueryParam(request *http.Request, key string) string {
	var values url.Values
	var err error

	if request.URL != nil {
		values, err = url.ParseQuery(request.URL.RawQuery)
		if err != nil {
			slog.Warn("Failed to parse query string", slog.String("query", request.URL.RawQuery), slog.Any("error", err))
			return ""
		}
	}

	if values == nil {
		values = make(url.Values)
	}

	return values.Get(key)
}
