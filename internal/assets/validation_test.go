package assets

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateAssetName - Name safety
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "default"},
		{name: "hyphen and underscore", input: "exam_answers-v2"},
		{name: "empty", input: "", wantErr: true},
		{name: "forward slash", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "dot", input: "default.txt", wantErr: true},
		{name: "traversal", input: "..", wantErr: true},
		{name: "null byte", input: "a\x00b", wantErr: true},
		{name: "too long", input: strings.Repeat("a", maxAssetNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}
