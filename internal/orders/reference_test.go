package orders

import (
	"regexp"
	"testing"
)

func TestNewPaymentReferenceFormat(t *testing.T) {
	ref := NewPaymentReference("kasi")
	pattern := regexp.MustCompile(`^kasi_\d+_[0-9a-f]{12}$`)
	if !pattern.MatchString(ref) {
		t.Fatalf("reference %q does not match expected format", ref)
	}
}

func TestNewPaymentReferenceUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := NewPaymentReference("kasi")
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestNewPaymentReferenceDefaultPrefix(t *testing.T) {
	ref := NewPaymentReference("")
	if ref[:5] != "kasi_" {
		t.Fatalf("expected default prefix, got %q", ref)
	}
}
