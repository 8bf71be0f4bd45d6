package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalHTML(t *testing.T) {
	pixel := OpenTrackingPixel("https://t.example.com/")

	testCases := []struct {
		name    string
		html    string
		tracker string
		want    string
	}{
		{
			name: "fragment is wrapped",
			html: "<p>Hi</p>",
			want: "<!DOCTYPE html><html><body><p>Hi</p></body></html>",
		},
		{
			name:    "pixel goes before the closing body tag",
			html:    "<html><body><p>Hi</p></body></html>",
			tracker: "https://t.example.com/",
			want:    "<html><body><p>Hi</p>" + pixel + "</body></html>",
		},
		{
			name:    "closing tag match is case insensitive",
			html:    "<HTML><BODY>x</BODY></HTML>",
			tracker: "https://t.example.com",
			want:    "<HTML><BODY>x" + pixel + "</BODY></HTML>",
		},
		{
			name:    "fragment gets wrapped and tracked",
			html:    "x",
			tracker: "https://t.example.com",
			want:    "<!DOCTYPE html><html><body>x" + pixel + "</body></html>",
		},
		{
			name:    "existing tracker is kept",
			html:    `<body><img src="https://other/track/open/1"></body>`,
			tracker: "https://t.example.com",
			want:    `<body><img src="https://other/track/open/1"></body>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FinalHTML(tc.html, tc.tracker))
		})
	}
}

func TestOpenTrackingPixel(t *testing.T) {
	pixel := OpenTrackingPixel("https://t.example.com/")
	assert.Contains(t, pixel, `src="https://t.example.com/track/open/{{ log_id }}"`)
	assert.Contains(t, pixel, `width="1" height="1"`)
}

func TestPlainText(t *testing.T) {
	html := `<html><head><style>p { color: red }</style><title>ignored</title></head>
<body><h1>Title</h1><p>Hello <a href="https://x.io">site</a><br>next</p><img src="x.png"><p><a href="https://y.io"></a></p></body></html>`

	text, err := PlainText(html)
	require.NoError(t, err)
	assert.Equal(t, "Title\nHello site (https://x.io)\nnext\nhttps://y.io", text)

	empty, err := PlainText("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNormalizeLines(t *testing.T) {
	assert.Equal(t, "a b\n\nc", normalizeLines("\n\n  a   b \n\n\n   \n c \n\n"))
}

func TestPersonalizer(t *testing.T) {
	p := NewPersonalizer()
	vars := Vars("log-1", Recipient{Name: "Ada", Email: "ada@example.com"}, "https://u.example.com/ada")

	t.Run("binds recipient variables", func(t *testing.T) {
		out, err := p.Personalize(context.Background(),
			`Hi {{ contact.name }} <{{ contact.email }}> <a href="{{ unsubscribe_url }}">x</a>`+OpenTrackingPixel("https://t.io"), vars)
		require.NoError(t, err)
		assert.Contains(t, out, "Hi Ada <ada@example.com>")
		assert.Contains(t, out, `href="https://u.example.com/ada"`)
		assert.Contains(t, out, "https://t.io/track/open/log-1")
	})

	t.Run("syntax errors are reported", func(t *testing.T) {
		_, err := p.Personalize(context.Background(), "{% if %}", vars)
		assert.Error(t, err)
	})

	t.Run("oversized templates are refused", func(t *testing.T) {
		small := NewPersonalizerWithOptions(time.Second, 8)
		_, err := small.Personalize(context.Background(), strings.Repeat("x", 9), vars)
		assert.ErrorContains(t, err, "exceeds maximum")
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := NewPersonalizerWithOptions(time.Minute, DefaultMaxTemplateSize)
		_, err := slow.Personalize(ctx, "{% for i in (1..10000000) %}{{ i }}{% endfor %}", vars)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
