package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	reImport = regexp.MustCompile(`(?i)@import\b[^;]*;?`)
	reCSSURL = regexp.MustCompile(`(?i)url\(\s*(['"]?)([^'")]*)(['"]?)\s*\)`)
)

// stripRemoteCSS removes @import rules and remote url() references from
// <style> bodies and style attributes under n. Local files and data URIs
// are kept.
func stripRemoteCSS(n *html.Node) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			if strings.EqualFold(a.Key, "style") {
				n.Attr[i].Val = cleanCSS(a.Val)
			}
		}
		if n.DataAtom == atom.Style {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					c.Data = cleanCSS(c.Data)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripRemoteCSS(c)
	}
}

func cleanCSS(css string) string {
	css = reImport.ReplaceAllString(css, "")
	return reCSSURL.ReplaceAllStringFunc(css, func(m string) string {
		target := reCSSURL.FindStringSubmatch(m)[2]
		if isRemoteURL(target) {
			return "none"
		}
		return m
	})
}

// isRemoteURL reports whether a url() target would be fetched from the
// network: scheme-relative or any scheme other than file and data.
func isRemoteURL(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if strings.HasPrefix(t, "//") {
		return true
	}
	scheme, _, ok := strings.Cut(t, ":")
	if !ok || strings.ContainsAny(scheme, "/?#") {
		return false
	}
	return scheme != "file" && scheme != "data"
}
