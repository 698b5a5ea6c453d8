package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader(`<div>hello <b>bold</b> world</div>`))
	require.NoError(t, err)
	require.Equal(t, "hello bold world", GetText(node))
}

func TestStripTags(t *testing.T) {
	cases := []struct {
		fragment string
		expected string
	}{
		{fragment: `<a href="#">Doe, Jane</a>`, expected: "Doe, Jane"},
		{fragment: `plain text`, expected: "plain text"},
		{fragment: `<div>  spaced   out  </div>`, expected: "spaced out"},
		// wrapped markup must not glue adjacent words together
		{fragment: "line\none", expected: "line one"},
		{fragment: "<div>first\n\t second</div>", expected: "first second"},
		{fragment: `<span></span>`, expected: ""},
		{fragment: `<div><strong>Label</strong> value</div>`, expected: "Label value"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, StripTags(test.fragment), test.fragment)
	}
}

func TestParseFragment(t *testing.T) {
	sel, err := ParseFragment(`<strong>Allergies</strong> no peanuts`)
	require.NoError(t, err)
	require.Equal(t, "Allergies", sel.Find("strong").Text())
	require.Equal(t, "Allergies no peanuts", sel.Text())
}
