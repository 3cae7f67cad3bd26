package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path only",
			key: Key{
				Domain: "openexchangerates.org",
				Path:   "api/historical/2025-01-01.json",
			},
			want: "rate:openexchangerates.org:api/historical/2025-01-01.json",
		},
		{
			name: "leading and trailing slashes normalized",
			key: Key{
				Domain: "openexchangerates.org",
				Path:   "/api/historical/2025-01-01.json/",
			},
			want: "rate:openexchangerates.org:api/historical/2025-01-01.json",
		},
		{
			name: "single query param",
			key: Key{
				Domain: "api.twelvedata.com",
				Path:   "eod",
				Query: url.Values{
					"symbol": []string{"EUR/USD"},
				},
			},
			want: "rate:api.twelvedata.com:eod:symbol=EUR/USD",
		},
		{
			name: "multiple query params sorted by name",
			key: Key{
				Domain: "openexchangerates.org",
				Path:   "api/historical/2025-01-01.json",
				Query: url.Values{
					"symbols": []string{"AUD"},
					"base":    []string{"USD"},
				},
			},
			want: "rate:openexchangerates.org:api/historical/2025-01-01.json:base=USD:symbols=AUD",
		},
		{
			name: "repeated param keeps value order",
			key: Key{
				Domain: "api.twelvedata.com",
				Path:   "eod",
				Query: url.Values{
					"symbol": []string{"EUR/USD", "GBP/USD"},
				},
			},
			want: "rate:api.twelvedata.com:eod:symbol=EUR/USD:symbol=GBP/USD",
		},
		{
			name: "empty path",
			key: Key{
				Domain: "api.twelvedata.com",
			},
			want: "rate:api.twelvedata.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKey_OrderInsensitive ensures parameter ordering never changes the key.
func TestKey_OrderInsensitive(t *testing.T) {
	a, err := url.ParseQuery("base=USD&symbols=AUD&app_id=abc123")
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	b, err := url.ParseQuery("symbols=AUD&app_id=abc123&base=USD")
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}

	keyA := Key{Domain: "openexchangerates.org", Path: "api/historical/2025-01-01.json", Query: a}
	keyB := Key{Domain: "openexchangerates.org", Path: "api/historical/2025-01-01.json", Query: b}

	if keyA.Digest() != keyB.Digest() {
		t.Errorf("digest differs for reordered params: %s vs %s", keyA.Digest(), keyB.Digest())
	}
}

// TestKey_Determinism ensures same input always produces same digest.
func TestKey_Determinism(t *testing.T) {
	key := Key{
		Domain: "openexchangerates.org",
		Path:   "api/historical/2025-01-01.json",
		Query: url.Values{
			"base":    []string{"USD"},
			"symbols": []string{"AUD"},
		},
	}

	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = key.Digest()
	}

	first := results[0]
	for i, result := range results {
		if result != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, result, first)
		}
	}
}

// TestKey_Distinct ensures requests differing in any component get distinct keys.
func TestKey_Distinct(t *testing.T) {
	base := Key{
		Domain: "openexchangerates.org",
		Path:   "api/historical/2025-01-01.json",
		Query:  url.Values{"base": []string{"USD"}},
	}

	variants := []Key{
		{Domain: "api.twelvedata.com", Path: base.Path, Query: base.Query},
		{Domain: base.Domain, Path: "api/historical/2025-01-02.json", Query: base.Query},
		{Domain: base.Domain, Path: base.Path, Query: url.Values{"base": []string{"EUR"}}},
		{Domain: base.Domain, Path: base.Path, Query: url.Values{"base": []string{"USD"}, "symbols": []string{"AUD"}}},
		{Domain: base.Domain, Path: base.Path},
	}

	seen := map[string]string{base.Digest(): base.String()}
	for _, v := range variants {
		digest := v.Digest()
		if prev, dup := seen[digest]; dup {
			t.Errorf("digest collision between %q and %q", prev, v.String())
		}
		seen[digest] = v.String()
	}
}

func TestKey_DigestFormat(t *testing.T) {
	digest := Key{Domain: "api.twelvedata.com", Path: "eod"}.Digest()

	// SHA-256 hex digest
	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(digest))
	}
	for _, c := range digest {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Errorf("digest contains non-hex character %q", c)
		}
	}
}
