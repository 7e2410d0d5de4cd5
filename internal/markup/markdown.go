package markup

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ToMarkdown converts a markup document to CommonMark with ATX headings and
// GFM tables. Inline styles that have no Markdown equivalent are dropped.
func ToMarkdown(doc string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(doc)
	if err != nil {
		return "", fmt.Errorf("converting markup to markdown: %w", err)
	}
	return md, nil
}
