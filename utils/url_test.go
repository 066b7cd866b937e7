package utils

import (
	"testing"
)

func TestNewEndpointBuilder(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		expected  string
		expectErr bool
	}{
		{"default", "https://beatsaver.com", "https://beatsaver.com", false},
		{"trailing_slash", "https://beatsaver.com/", "https://beatsaver.com", false},
		{"with_path", "http://127.0.0.1:8080/mirror/", "http://127.0.0.1:8080/mirror", false},
		{"query_dropped", "https://beatsaver.com?x=1", "https://beatsaver.com", false},
		{"empty", "", "", true},
		{"bad_scheme", "ftp://beatsaver.com", "", true},
		{"no_host", "https://", "", true},
		{"not_a_url", "://bad", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := NewEndpointBuilder(tt.baseURL)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.baseURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if builder.Base() != tt.expected {
				t.Errorf("Base() = %q, expected %q", builder.Base(), tt.expected)
			}
		})
	}
}

func TestEndpointBuilder_Endpoints(t *testing.T) {
	builder, err := NewEndpointBuilder("https://beatsaver.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"detail", builder.MapDetail("abc123"), "https://beatsaver.com/api/maps/detail/abc123"},
		{"by_hash", builder.MapByHash("fda568fc27c20d21f8dc6f3709b49b5cc96723be"), "https://beatsaver.com/api/maps/by-hash/fda568fc27c20d21f8dc6f3709b49b5cc96723be"},
		{"search", builder.SearchText("test", 0), "https://beatsaver.com/api/search/text/0?q=test"},
		{"search_page", builder.SearchText("test", 3), "https://beatsaver.com/api/search/text/3?q=test"},
		{"search_escaped", builder.SearchText("rock & roll?", 1), "https://beatsaver.com/api/search/text/1?q=rock+%26+roll%3F"},
		{"detail_escaped", builder.MapDetail("a/b"), "https://beatsaver.com/api/maps/detail/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}

func TestEndpointBuilder_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		ref      string
		expected string
	}{
		{"rooted_path", "https://beatsaver.com", "/cdn/abc123/hash.zip", "https://beatsaver.com/cdn/abc123/hash.zip"},
		{"rooted_with_base_path", "http://127.0.0.1:8080/mirror", "/cdn/abc123.jpg", "http://127.0.0.1:8080/mirror/cdn/abc123.jpg"},
		{"relative_path", "http://127.0.0.1:8080/mirror", "cdn/abc123.jpg", "http://127.0.0.1:8080/mirror/cdn/abc123.jpg"},
		{"absolute_kept", "https://beatsaver.com", "https://cdn.example.com/abc.zip", "https://cdn.example.com/abc.zip"},
		{"scheme_relative", "https://beatsaver.com", "//cdn.example.com/cover.jpg", "https://cdn.example.com/cover.jpg"},
		{"scheme_relative_http_base", "http://127.0.0.1:8080/mirror", "//cdn.example.com/a.zip", "http://cdn.example.com/a.zip"},
		{"query_kept", "https://beatsaver.com", "/api/download/key/abc123?type=zip", "https://beatsaver.com/api/download/key/abc123?type=zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := NewEndpointBuilder(tt.baseURL)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got, err := builder.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, expected %q", tt.ref, got, tt.expected)
			}
		})
	}
}

func TestEndpointBuilder_ResolveEmpty(t *testing.T) {
	builder, _ := NewEndpointBuilder("https://beatsaver.com")
	if _, err := builder.Resolve(""); err == nil {
		t.Error("Expected error for empty reference")
	}
}
