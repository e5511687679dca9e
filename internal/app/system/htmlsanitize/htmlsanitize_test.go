package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "よろしくお願いします", "よろしくお願いします"},
		{"markdown survives", "# 自己紹介\n- **Webアプリ開発**", "# 自己紹介\n- **Webアプリ開発**"},
		{"script removed", "Hello<script>alert('xss')</script>", "Hello"},
		{"tags stripped to text", "<p><strong>Bold</strong> and <em>italic</em></p>", "Bold and italic"},
		{"onclick gone", `<button onclick="alert('xss')">Click</button>`, "Click"},
		{"entities round-trip", "R&D <b>team</b>", "R&D team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.StripTags(tt.input)
			if got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
