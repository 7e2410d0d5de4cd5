package markup

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// documentPolicy extends the UGC policy for whole documents with inline
// styling. Scripts, event handlers, iframes and <link> are not allowed.
// AllowUnsafe is required for <style> bodies to pass through unescaped;
// <script> stays disallowed so its content is skipped. Remote references
// inside CSS are handled by Normalize.
func documentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()

		p.AllowElements("html", "head", "body", "title", "style", "font", "center")
		p.AllowNoAttrs().OnElements("html", "head", "body", "title", "style", "span", "div", "font", "center")
		p.AllowAttrs("charset").OnElements("meta")
		p.AllowAttrs("type", "media").OnElements("style")

		p.AllowAttrs("style", "class", "align", "dir").Globally()
		p.AllowAttrs("face", "size", "color").OnElements("font")
		p.AllowAttrs("bgcolor", "border", "cellpadding", "cellspacing", "width", "height", "valign").
			OnElements("table", "tr", "td", "th", "body", "img", "col")

		p.AllowURLSchemes("file")
		p.AllowDataURIImages()
		p.AllowUnsafe(true)

		policy = p
	})
	return policy
}

// Sanitize strips executable and external content from a markup document
// and keeps its structure, text and inline styles.
func Sanitize(doc string) string {
	return documentPolicy().Sanitize(doc)
}
