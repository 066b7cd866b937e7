package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"beatfetch/internal"
)

// EndpointBuilder builds BeatSaver API URLs relative to a base address
type EndpointBuilder struct {
	base *url.URL
}

// NewEndpointBuilder validates baseURL and returns a builder for it
func NewEndpointBuilder(baseURL string) (*EndpointBuilder, error) {
	if baseURL == "" {
		return nil, internal.NewValidationError("base_url", "base URL cannot be empty")
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, internal.NewValidationErrorWithValue("base_url", fmt.Sprintf("invalid URL format: %v", err), baseURL)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, internal.NewValidationErrorWithValue("base_url", "URL must use http or https protocol", baseURL)
	}
	if parsed.Host == "" {
		return nil, internal.NewValidationErrorWithValue("base_url", "URL must include a host", baseURL)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""

	return &EndpointBuilder{base: parsed}, nil
}

// Base returns the normalized base URL without a trailing slash
func (b *EndpointBuilder) Base() string {
	return b.base.String()
}

// MapDetail returns {base}/api/maps/detail/{key}
func (b *EndpointBuilder) MapDetail(key string) string {
	return b.join("api", "maps", "detail", key)
}

// MapByHash returns {base}/api/maps/by-hash/{hash}
func (b *EndpointBuilder) MapByHash(hash string) string {
	return b.join("api", "maps", "by-hash", hash)
}

// SearchText returns {base}/api/search/text/{page}?q={query}
func (b *EndpointBuilder) SearchText(query string, page int) string {
	return b.join("api", "search", "text", strconv.Itoa(page)) + "?q=" + url.QueryEscape(query)
}

// Resolve resolves a document-supplied URL against the base. Absolute URLs
// are returned unchanged.
func (b *EndpointBuilder) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", internal.NewValidationError("url", "URL cannot be empty")
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", internal.NewValidationErrorWithValue("url", fmt.Sprintf("invalid URL format: %v", err), ref)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	// Scheme-relative references keep their own host
	if parsed.Host != "" {
		return b.base.ResolveReference(parsed).String(), nil
	}

	// Keep any path prefix of the base, which ResolveReference would drop
	if strings.HasPrefix(parsed.Path, "/") {
		resolved := *b.base
		resolved.Path = strings.TrimRight(b.base.Path, "/") + parsed.Path
		resolved.RawPath = ""
		resolved.RawQuery = parsed.RawQuery
		return resolved.String(), nil
	}

	dir := *b.base
	dir.Path = strings.TrimRight(b.base.Path, "/") + "/"
	return dir.ResolveReference(parsed).String(), nil
}

func (b *EndpointBuilder) join(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return b.Base() + "/" + strings.Join(escaped, "/")
}
