package registry

import (
	"testing"

	"github.com/RangaDM/shopfront/errors"
)

func TestNewSnapshot_CopiesInput(t *testing.T) {
	in := map[string]string{"order": "http://a:8001"}
	snap := NewSnapshot(in, SourceRemote)

	in["order"] = "http://mutated:9999"
	in["extra"] = "http://extra:1"

	addr, err := snap.Resolve("order")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "http://a:8001" {
		t.Errorf("expected original address, got %q", addr)
	}
	if snap.Len() != 1 {
		t.Errorf("expected 1 service, got %d", snap.Len())
	}
}

func TestSnapshot_Resolve(t *testing.T) {
	snap := NewSnapshot(map[string]string{"order": "http://a:8001"}, SourceRemote)

	if _, err := snap.Resolve("order"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_, err := snap.Resolve("payments")
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
	if !errors.HasCode(err, errors.ErrCodeUnknownService) {
		t.Errorf("expected UNKNOWN_SERVICE, got %v", err)
	}
}

func TestSnapshot_ServicesIsCopy(t *testing.T) {
	snap := NewSnapshot(map[string]string{"order": "http://a:8001"}, SourceFallback)

	m := snap.Services()
	m["order"] = "http://mutated"

	addr, _ := snap.Resolve("order")
	if addr != "http://a:8001" {
		t.Errorf("mutation of Services() leaked into snapshot: %q", addr)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		defaultPort int
		want        string
	}{
		{"full http url", "http://order-svc:8001", 9999, "http://order-svc:8001"},
		{"full https url", "https://order.example.com", 8001, "https://order.example.com"},
		{"url trailing slash", "http://order-svc:8001/", 0, "http://order-svc:8001"},
		{"host and port", "10.0.0.5:8001", 9999, "http://10.0.0.5:8001"},
		{"bare host with default", "10.0.0.5", 8001, "http://10.0.0.5:8001"},
		{"bare hostname with default", "order-svc", 8002, "http://order-svc:8002"},
		{"bare host no default", "10.0.0.5", 0, "http://10.0.0.5"},
		{"surrounding whitespace", "  10.0.0.5 ", 8003, "http://10.0.0.5:8003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.value, tt.defaultPort); got != tt.want {
				t.Errorf("NormalizeAddress(%q, %d) = %q, want %q", tt.value, tt.defaultPort, got, tt.want)
			}
		})
	}
}
