// Package prompt composes the text payload sent to the model.
//
// A prompt is the fixed rule text, a labeled user context section and a
// labeled section holding the full markup document, joined in that order:
//
//	{rules}
//
//	User context:
//	{user context}
//
//	Original markup:
//	{markup}
//
// Build is pure: identical inputs yield byte-identical output. No size limit
// is enforced here; oversized payloads are rejected by the model service.
package prompt

import "strings"

// Section labels. Each label is followed by a newline and the section body.
const (
	UserContextLabel = "User context:"
	MarkupLabel      = "Original markup:"
)

// sectionSep separates the rules and the two labeled sections.
const sectionSep = "\n\n"

// Build returns rules, userContext and markup joined into a single prompt.
// An empty userContext still yields the "User context:" section.
func Build(rules, userContext, markup string) string {
	var b strings.Builder
	b.Grow(len(rules) + len(userContext) + len(markup) + len(UserContextLabel) + len(MarkupLabel) + 6)

	b.WriteString(rules)
	b.WriteString(sectionSep)
	b.WriteString(UserContextLabel)
	b.WriteByte('\n')
	b.WriteString(userContext)
	b.WriteString(sectionSep)
	b.WriteString(MarkupLabel)
	b.WriteByte('\n')
	b.WriteString(markup)

	return b.String()
}
