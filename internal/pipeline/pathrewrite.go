package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// localRefAttrs lists the attributes whose relative values point at files
// next to the source document.
var localRefAttrs = map[atom.Atom]string{
	atom.Img:   "src",
	atom.A:     "href",
	atom.Table: "background",
	atom.Td:    "background",
	atom.Body:  "background",
}

// ResolveLocalRefs rewrites relative image and link references in an HTML
// document to absolute file:// URLs rooted at sourceDir, so the renderer can
// load them from the temporary directory the document is staged in.
// References that are absolute, carry a scheme, are pure fragments, or
// escape sourceDir are left untouched. An empty sourceDir is a no-op.
func ResolveLocalRefs(doc, sourceDir string) (string, error) {
	if sourceDir == "" {
		return doc, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if key, ok := localRefAttrs[n.DataAtom]; ok {
				for i := range n.Attr {
					if n.Attr[i].Key == key {
						n.Attr[i].Val = resolveRef(n.Attr[i].Val, absDir)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// resolveRef returns the file:// form of ref, or ref itself when it should
// not be rewritten.
func resolveRef(ref, dir string) string {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return ref
	}
	if filepath.IsAbs(u.Path) || strings.HasPrefix(u.Path, "/") {
		return ref
	}

	abs := filepath.Join(dir, filepath.FromSlash(u.Path))
	if !within(abs, dir) {
		return ref
	}

	out := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), Fragment: u.Fragment}
	if !strings.HasPrefix(out.Path, "/") {
		// Windows drive paths need a leading slash: file:///C:/docs.
		out.Path = "/" + out.Path
	}
	return out.String()
}

// within reports whether path lies inside dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
