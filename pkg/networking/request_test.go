package networking_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/milan604/netservice/pkg/networking"
)

func TestMergeConfig(t *testing.T) {
	defaults := &networking.RequestConfig{
		BaseURL: "https://api.example.com",
		Timeout: 10 * time.Second,
		Header: http.Header{
			"Content-Type":  {"application/json"},
			"Authorization": {"abc123"},
		},
		Query: url.Values{"lang": {"en"}},
	}
	perCall := &networking.RequestConfig{
		Method: http.MethodPost,
		URL:    "/orders",
		Header: http.Header{"Content-Type": {"text/plain"}, "X-Tenant": {"acme"}},
		Query:  url.Values{"page": {"2"}},
		Body:   map[string]int{"qty": 1},
	}

	got := networking.MergeConfig(defaults, perCall)
	want := &networking.RequestConfig{
		Method:  http.MethodPost,
		BaseURL: "https://api.example.com",
		URL:     "/orders",
		Timeout: 10 * time.Second,
		Header: http.Header{
			"Content-Type":  {"text/plain"},
			"Authorization": {"abc123"},
			"X-Tenant":      {"acme"},
		},
		Query: url.Values{"lang": {"en"}, "page": {"2"}},
		Body:  map[string]int{"qty": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("unexpected merge (-want +got):", diff)
	}

	if defaults.Header.Get("X-Tenant") != "" || defaults.Query.Get("page") != "" {
		t.Error("MergeConfig must not modify its inputs")
	}
}

func TestMergeConfig_NilPerCall(t *testing.T) {
	defaults := &networking.RequestConfig{BaseURL: "https://api.example.com", Timeout: time.Second}
	got := networking.MergeConfig(defaults, nil)
	if diff := cmp.Diff(defaults, got); diff != "" {
		t.Error(diff)
	}
	if got == defaults {
		t.Error("expected a copy")
	}
}

func TestHandleParameter(t *testing.T) {
	tests := []struct {
		name   string
		params networking.Params
		method string
		want   *networking.RequestConfig
	}{
		{
			name: "get drops body and fills path and query",
			params: networking.Params{
				URL:     "/orders/{id}/items/:item",
				Path:    map[string]any{"id": 7, "item": "a b"},
				Params:  map[string]any{"page": 2, "tag": []string{"x", "y"}},
				Body:    "ignored",
				Headers: map[string]string{"x-tenant": "acme"},
			},
			method: http.MethodGet,
			want: &networking.RequestConfig{
				Method: http.MethodGet,
				URL:    "/orders/7/items/a%20b",
				Query:  url.Values{"page": {"2"}, "tag": {"x", "y"}},
				Header: http.Header{"X-Tenant": {"acme"}},
			},
		},
		{
			name:   "post keeps body",
			params: networking.Params{URL: "/orders", Body: map[string]string{"sku": "A1"}},
			method: http.MethodPost,
			want: &networking.RequestConfig{
				Method: http.MethodPost,
				URL:    "/orders",
				Body:   map[string]string{"sku": "A1"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := networking.HandleParameter(tc.params, tc.method)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error("unexpected config (-want +got):", diff)
			}
		})
	}
}
