package markdown

import (
	"regexp"
	"strings"
)

// DefaultLanguage is the language of a fenced block with no info string.
const DefaultLanguage = "plaintext"

// BlockKind distinguishes prose from fenced code.
type BlockKind int

const (
	// BlockText is a markdown prose segment, rendered with Render.
	BlockText BlockKind = iota
	// BlockCode is the verbatim body of a fenced code block.
	BlockCode
)

// Block is one segment of a section body.
type Block struct {
	Kind     BlockKind
	Text     string
	Language string
}

var fencePattern = regexp.MustCompile("```" + `(\w+)?\n([\s\S]*?)` + "```")

// Split partitions content into alternating text and code blocks. Code is
// trimmed and kept verbatim; empty text and code segments are dropped.
func Split(content string) []Block {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var blocks []Block
	last := 0
	for _, m := range fencePattern.FindAllStringSubmatchIndex(content, -1) {
		if text := content[last:m[0]]; strings.TrimSpace(text) != "" {
			blocks = append(blocks, Block{Kind: BlockText, Text: text})
		}

		lang := DefaultLanguage
		if m[2] >= 0 {
			lang = content[m[2]:m[3]]
		}
		if code := strings.TrimSpace(content[m[4]:m[5]]); code != "" {
			blocks = append(blocks, Block{Kind: BlockCode, Text: code, Language: lang})
		}
		last = m[1]
	}

	if text := content[last:]; strings.TrimSpace(text) != "" {
		blocks = append(blocks, Block{Kind: BlockText, Text: text})
	}

	return blocks
}

const (
	classProse = "prose prose-sm md:prose-base dark:prose-invert max-w-none mb-4"
	classPre   = "mb-4 overflow-x-auto rounded-lg bg-muted p-4 text-sm"
)

// RenderHTML renders a full section body: prose segments go through Render,
// code blocks are escaped and wrapped in pre/code tagged with their language.
func RenderHTML(content string) string {
	blocks := Split(content)
	parts := make([]string, 0, len(blocks))

	for _, block := range blocks {
		switch block.Kind {
		case BlockCode:
			parts = append(parts, `<pre class="`+classPre+`"><code class="language-`+block.Language+`">`+
				escapeHTML(block.Text)+`</code></pre>`)
		default:
			if html := Render(block.Text); html != "" {
				parts = append(parts, `<div class="`+classProse+`">`+html+`</div>`)
			}
		}
	}

	return strings.Join(parts, "\n")
}
