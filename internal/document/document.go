// Package document holds the Document type and the final-output assembler.
package document

import (
	"fmt"
	"strings"

	"github.com/yhzhou/feedsum/internal/frontmatter"
)

// Document is one Markdown source: its front matter and raw body. A document
// is read once, mutated in place through the pipeline stages and written
// exactly once.
type Document struct {
	Front frontmatter.FrontMatter
	Body  string
}

// Parse splits raw file content into front matter and body.
func Parse(raw string) Document {
	front, body := frontmatter.Split(raw)
	return Document{Front: front, Body: body}
}

// Compose assembles the final output text:
//
//	front-matter block (--- fenced)
//	optional source-attribution line when link is non-empty
//	summary block: "## 摘要：" heading, the summary, a horizontal rule
//	the translated body
//
// This ordering and the horizontal-rule separator are a structural contract;
// downstream tooling re-parses output files relying on it.
func Compose(front *frontmatter.FrontMatter, link, summary, body string) (string, error) {
	fmText, err := front.Marshal()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(fmText)
	b.WriteString("\n---\n\n")
	if link != "" {
		fmt.Fprintf(&b, "*[源信息](%s)经过 AI 翻译并总结*\n\n", link)
	}
	fmt.Fprintf(&b, "## 摘要：\n\n%s\n\n---\n\n", summary)
	b.WriteString(body)
	return b.String(), nil
}
