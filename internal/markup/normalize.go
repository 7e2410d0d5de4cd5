package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Normalize parses doc and renders it back as a complete document that
// starts with <!DOCTYPE html> and declares <meta charset="utf-8"> first in
// <head>. Existing charset declarations are rewritten to utf-8, and
// @import rules and remote url() references are dropped from CSS.
func Normalize(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}

	ensureDoctype(root)
	stripRemoteCSS(root)

	if head := findElement(root, atom.Head); head != nil {
		ensureCharset(head)
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", fmt.Errorf("rendering markup: %w", err)
	}
	return b.String(), nil
}

func ensureDoctype(root *html.Node) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return
		}
	}
	root.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, root.FirstChild)
}

// ensureCharset rewrites or inserts the charset declaration in head.
func ensureCharset(head *html.Node) {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		for i, a := range c.Attr {
			switch {
			case strings.EqualFold(a.Key, "charset"):
				c.Attr[i].Val = "utf-8"
				return
			case strings.EqualFold(a.Key, "http-equiv") && strings.EqualFold(a.Val, "content-type"):
				c.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
				return
			}
		}
	}

	meta := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Meta,
		Data:     "meta",
		Attr:     []html.Attribute{{Key: "charset", Val: "utf-8"}},
	}
	head.InsertBefore(meta, head.FirstChild)
}

// findElement returns the first element with the given atom in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// Clean runs Extract, Sanitize and Normalize in order.
func Clean(completion string) (string, error) {
	doc, err := Extract(completion)
	if err != nil {
		return "", err
	}
	return Normalize(Sanitize(doc))
}
