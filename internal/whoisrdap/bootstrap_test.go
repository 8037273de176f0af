package whoisrdap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBootstrapBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := map[string]interface{}{
			"services": []interface{}{
				[]interface{}{
					[]interface{}{"com", "net"},
					[]interface{}{"https://rdap.verisign.com/com/v1/"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	b := NewBootstrapSource(srv.URL)
	url, err := b.BaseURL(context.Background(), "com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://rdap.verisign.com/com/v1/" {
		t.Fatalf("url = %q", url)
	}

	// Second call should hit the cache (only one request served is fine
	// either way since httptest.Server handles concurrent requests, but
	// we assert the cached registry is reused without error).
	url2, err := b.BaseURL(context.Background(), "net")
	if err != nil || url2 != "https://rdap.verisign.com/com/v1/" {
		t.Fatalf("url2 = %q err=%v", url2, err)
	}
}

func TestBootstrapUnknownTLD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"services": []interface{}{}})
	}))
	defer srv.Close()

	b := NewBootstrapSource(srv.URL)
	_, err := b.BaseURL(context.Background(), "zz")
	if err == nil {
		t.Fatalf("expected error for unknown tld")
	}
}
