package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// ParseFragment parses a snippet of markup (such as a cell's innerHTML)
// into a selection rooted at the implied <body>.
func ParseFragment(fragment string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	return doc.Find("body"), nil
}

// StripTags returns the text content of a snippet of markup with tags
// removed, runs of whitespace (newlines included, since cell markup
// wraps mid-word-boundary) collapsed to single spaces and non-printable
// characters dropped.
func StripTags(fragment string) string {
	sel, err := ParseFragment(fragment)
	if err != nil {
		return fragment
	}
	text := whitespaceRun.ReplaceAllString(sel.Text(), " ")
	text = removeNonPrintable(text)
	return strings.Trim(text, " ")
}
