package utils

import "testing"

func TestExpandPath(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		values map[string]any
		want   string
	}{
		{"braces", "/orders/{id}/items", map[string]any{"id": 42}, "/orders/42/items"},
		{"colon", "/orders/:id", map[string]any{"id": "a b"}, "/orders/a%20b"},
		{"colon prefix only", "/orders/:identifier", map[string]any{"id": 1}, "/orders/:identifier"},
		{"missing value", "/orders/{id}", map[string]any{"other": 1}, "/orders/{id}"},
		{"no values", "/orders", nil, "/orders"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpandPath(tc.path, tc.values); got != tc.want {
				t.Errorf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	got, err := JoinURL("https://api.example.com/v1/", "/orders")
	if err != nil || got != "https://api.example.com/v1/orders" {
		t.Errorf("unexpected join: %q %v", got, err)
	}

	got, err = JoinURL("https://api.example.com", "https://other.example.com/x")
	if err != nil || got != "https://other.example.com/x" {
		t.Errorf("absolute url should win: %q %v", got, err)
	}

	if _, err := JoinURL("", "/orders"); err == nil {
		t.Error("expected error for relative url without base")
	}
}
