package oracle

import (
	"fmt"

	"github.com/docstruct/docstruct/internal/document"
)

const hierarchyPrompt = `You are an expert document parser. Below is a JSON array of text blocks, in reading order, taken from the table-of-contents page(s) of an annual report. Each block has a bounding box [x0, y0, x1, y1] and its text.

Extract ALL sections and sub-sections that have a page number associated with them. Use indentation, box position, and numbering to judge nesting depth.

Output one JSON object per line, nothing else on the line, in this exact shape:
{"level": 1, "title": "Corporate Overview", "page": 4}

- "level" is an integer, 1 for top-level sections, 2 for sub-sections, and so on.
- "title" is the section title without leader dots or page numbers.
- "page" is the printed start page number as an integer.

If the blocks contain no table of contents, output nothing.`

// BuildPrompt assembles the single request payload sent to the oracle.
func BuildPrompt(blocks []document.Block) (string, error) {
	encoded, err := EncodeBlocks(blocks)
	if err != nil {
		return "", fmt.Errorf("encode blocks: %w", err)
	}
	return fmt.Sprintf("%s\n\nBLOCKS:\n---\n%s\n---\n", hierarchyPrompt, encoded), nil
}
