// Package pipeline turns non-PDF sources into HTML documents the editing
// pipeline can send to the model.
//
//   - Markdown goes through Goldmark with GFM, footnotes and inline-styled
//     syntax highlighting, so no stylesheet is needed downstream.
//   - Plain text is decoded to UTF-8 (chardet detection, x/text decoders) and
//     wrapped in paragraphs.
//   - HTML is decoded using its declared or detected charset and has relative
//     image and link references resolved against the source directory.
//
// PDF sources are handled by the extractors of the root pdfedit package.
package pipeline
