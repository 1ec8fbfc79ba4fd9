package advice

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "sorted and deduped", in: []string{"p3", "p1", "p3", "p2"}, want: []string{"p1", "p2", "p3"}},
		{name: "already normal", in: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "empty", in: nil, want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeIDs(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("NormalizeIDs mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(got, NormalizeIDs(got)); diff != "" {
				t.Fatalf("NormalizeIDs is not idempotent:\n%s", diff)
			}
		})
	}
}

func TestNormalizeIDsDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a", "b"}
	_ = NormalizeIDs(in)
	if diff := cmp.Diff([]string{"b", "a", "b"}, in); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestSameFingerprint(t *testing.T) {
	if !SameFingerprint([]string{"b", "a", "a"}, []string{"a", "b"}) {
		t.Fatalf("expected equal fingerprints")
	}
	if SameFingerprint([]string{"a", "b"}, []string{"a", "c"}) {
		t.Fatalf("expected different fingerprints")
	}
	if SameFingerprint([]string{"a"}, []string{"a", "b"}) {
		t.Fatalf("expected different lengths to differ")
	}
}
