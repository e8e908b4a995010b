package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text collapses whitespace", "  Giá   vàng\n tăng ", "Giá vàng tăng"},
		{
			"google news description",
			`<a href="https://news.google.com/articles/x" target="_blank">Việt Nam ký hợp đồng dầu khí</a>&nbsp;&nbsp;<font color="#6f6f6f">VnExpress</font>`,
			"Việt Nam ký hợp đồng dầu khí VnExpress",
		},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"paragraphs kept apart", "<p>First one.</p><p> Second  one. </p>", "First one.\n\nSecond one."},
		{"scripts dropped", "<div>Hello<script>alert(1)</script> world</div>", "Hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestContent_StripsTruncationMarker(t *testing.T) {
	in := "Hanoi has approved a new metro line connecting the west… [+2345 chars]"
	assert.Equal(t, "Hanoi has approved a new metro line connecting the west…", Content(in))
	assert.Equal(t, "no marker here", Content("no marker here"))
}
