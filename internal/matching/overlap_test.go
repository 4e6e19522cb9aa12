package matching

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  interface{}
		expect []string
	}{
		{
			name:   "absent value",
			input:  nil,
			expect: nil,
		},
		{
			name:   "single string",
			input:  "느긋한",
			expect: []string{"느긋한"},
		},
		{
			name:   "single keyword object",
			input:  map[string]interface{}{"label": "즉흥적"},
			expect: []string{"즉흥적"},
		},
		{
			name: "array mixing strings and objects",
			input: []interface{}{
				map[string]interface{}{"label": "즉흥적"},
				"계획적",
				map[string]interface{}{"value": "활동적"},
			},
			expect: []string{"즉흥적", "계획적", "활동적"},
		},
		{
			name:   "blank elements dropped",
			input:  []interface{}{"", "  ", "내향적"},
			expect: []string{"내향적"},
		},
		{
			name: "label wins over value and name",
			input: []interface{}{
				map[string]interface{}{"label": "여유로운", "value": "busy", "name": "other"},
			},
			expect: []string{"여유로운"},
		},
		{
			name: "falls through non-string label",
			input: []interface{}{
				map[string]interface{}{"label": 42, "value": "미식가"},
			},
			expect: []string{"미식가"},
		},
		{
			name:   "scalar coerced to text",
			input:  []interface{}{3.0, true},
			expect: []string{"3", "true"},
		},
		{
			name:   "duplicates pass through",
			input:  []interface{}{"느긋한", "느긋한"},
			expect: []string{"느긋한", "느긋한"},
		},
		{
			name:   "typed string slice",
			input:  []string{" 산책 ", "사진"},
			expect: []string{"산책", "사진"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeOverlap(tt.input)
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoinOverlap(t *testing.T) {
	t.Parallel()

	joined, ok := JoinOverlap([]interface{}{"즉흥적", "계획적"})
	if !ok {
		t.Fatalf("expected joined keywords to be present")
	}
	if joined != "즉흥적, 계획적" {
		t.Fatalf("unexpected joined keywords: %q", joined)
	}
}

func TestJoinOverlapEmptyReportsAbsent(t *testing.T) {
	t.Parallel()

	// Absence, not an empty string, is what tells the display layer to skip
	// the keywords section.
	if joined, ok := JoinOverlap([]interface{}{}); ok || joined != "" {
		t.Fatalf("expected absent result, got %q (ok=%v)", joined, ok)
	}

	if _, ok := JoinOverlap(nil); ok {
		t.Fatalf("expected absent result for nil input")
	}

	if _, ok := JoinOverlap([]interface{}{"", "   "}); ok {
		t.Fatalf("expected absent result for blank-only input")
	}
}
