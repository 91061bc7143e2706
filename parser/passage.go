package parser

import (
	"strings"

	"github.com/tw1x/tw1x/ast"
)

// Issue mirrors runtime.Issue's shape without importing runtime (parser
// sits below runtime in the package layering); ParseStory's caller
// translates these into runtime.Issue values.
type Issue struct {
	Kind     string
	Message  string
	Position int
}

const (
	IssueStructural = "StructuralError"
)

// ParseStory splits source at passage headers and extracts each passage's
// name, tags, raw body (with surrounding whitespace trimmed), and image
// URL. Parsing is syntactic
// only: link and macro syntax inside the body is left untouched for the
// macro interpreter to resolve at render time.
func ParseStory(source string) (passages []*ast.Passage, order []string, issues []Issue) {
	lines := strings.Split(source, "\n")
	type block struct {
		header string
		start  int // index into lines of the first body line
		end    int // exclusive
	}
	var blocks []block
	for i, line := range lines {
		if strings.HasPrefix(line, ":: ") {
			if len(blocks) > 0 {
				blocks[len(blocks)-1].end = i
			}
			blocks = append(blocks, block{header: line, start: i + 1})
		}
	}
	if len(blocks) > 0 {
		blocks[len(blocks)-1].end = len(lines)
	}

	for _, b := range blocks {
		name, tags, ok := parseHeader(b.header, &issues)
		if !ok {
			continue
		}
		body := strings.TrimSpace(strings.Join(lines[b.start:b.end], "\n"))
		imageURL := extractImageURL(body)
		p := &ast.Passage{Name: name, Tags: tags, RawBody: body, ImageURL: imageURL}
		passages = append(passages, p)
		order = append(order, name)
	}
	return passages, order, issues
}

// parseHeader parses `:: NAME [TAG1 TAG2 ...]`.
func parseHeader(line string, issues *[]Issue) (name string, tags []string, ok bool) {
	rest := strings.TrimPrefix(line, ":: ")
	rest = strings.TrimRight(rest, "\r")

	bracket := strings.IndexByte(rest, '[')
	namePart := rest
	tagPart := ""
	hasBracket := bracket >= 0
	if hasBracket {
		namePart = rest[:bracket]
		tagPart = rest[bracket:]
	}
	namePart = strings.TrimSpace(namePart)
	if namePart == "" {
		*issues = append(*issues, Issue{Kind: IssueStructural, Message: "header without a name: " + line})
		return "", nil, false
	}

	if hasBracket {
		if !strings.HasSuffix(strings.TrimRight(tagPart, " "), "]") {
			*issues = append(*issues, Issue{Kind: IssueStructural, Message: "unterminated tag bracket in header: " + line})
			tagPart = strings.TrimPrefix(tagPart, "[")
		} else {
			tagPart = strings.TrimSuffix(strings.TrimRight(tagPart, " "), "]")
			tagPart = strings.TrimPrefix(tagPart, "[")
		}
		for _, t := range strings.Fields(tagPart) {
			tags = append(tags, t)
		}
	}

	return namePart, tags, true
}

// extractImageURL returns the URL of the first [img[URL]] marker in body,
// or "" if none is present.
func extractImageURL(body string) string {
	const marker = "[img["
	idx := strings.Index(body, marker)
	if idx < 0 {
		return ""
	}
	rest := body[idx+len(marker):]
	end := strings.Index(rest, "]]")
	if end < 0 {
		return ""
	}
	return rest[:end]
}
