// Package markup cleans and normalizes HTML markup documents.
//
// Model completions rarely come back as a bare document: they may be wrapped
// in code fences, prefixed with a sentence of chatter, or contain markup the
// renderers must not execute. The functions here turn a completion into a
// standalone, UTF-8 declared document that renders without scripts or
// external resources:
//
//   - Extract isolates the document from surrounding text
//   - Sanitize removes scripts, event handlers and external stylesheets
//     while keeping inline styling
//   - Normalize adds a doctype and a UTF-8 charset declaration
//
// ToMarkdown converts a markup document to Markdown for text exports.
package markup
