// ABOUTME: ResponseContentParser: ordered matcher rules that classify reply lines
// ABOUTME: First matching rule wins; the paragraph rule always matches so parsing is total

package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	videoMarker     = "- VIDEO:"
	headingMarker   = "**"
	noteMarker      = "*"
	dividerLine     = "---"
	minHeadingRunes = 4
	minNoteRunes    = 3
)

var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)

// Rule classifies a single line. Match reports false when the rule does
// not apply so the next rule can be tried.
type Rule struct {
	Name  string
	Match func(line string) (Block, bool)
}

// Rules is the classification cascade in precedence order.
var Rules = []Rule{
	{Name: "video", Match: matchVideo},
	{Name: "image", Match: matchImage},
	{Name: "heading", Match: matchHeading},
	{Name: "note", Match: matchNote},
	{Name: "divider", Match: matchDivider},
	{Name: "blank", Match: matchBlank},
	{Name: "paragraph", Match: matchParagraph},
}

// Parse splits raw on newlines and classifies each line with Rules.
// len(result) always equals the number of input lines.
func Parse(raw string) []Block {
	lines := strings.Split(raw, "\n")
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = Classify(strings.TrimSuffix(line, "\r"))
	}
	return blocks
}

// Classify returns the block for one line.
func Classify(line string) Block {
	for _, r := range Rules {
		if b, ok := r.Match(line); ok {
			return b
		}
	}
	return Paragraph(line)
}

// RuleFor returns the name of the rule that classifies line.
func RuleFor(line string) string {
	for _, r := range Rules {
		if _, ok := r.Match(line); ok {
			return r.Name
		}
	}
	return "paragraph"
}

func matchVideo(line string) (Block, bool) {
	trimmed := strings.TrimSpace(line)
	id, ok := strings.CutPrefix(trimmed, videoMarker)
	if !ok {
		return Block{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Block{}, false
	}
	return VideoEmbed(id), true
}

func matchImage(line string) (Block, bool) {
	m := imagePattern.FindStringSubmatch(line)
	if m == nil {
		return Block{}, false
	}
	return ImageEmbed(m[1], m[2]), true
}

func matchHeading(line string) (Block, bool) {
	if utf8.RuneCountInString(line) < minHeadingRunes ||
		!strings.HasPrefix(line, headingMarker) || !strings.HasSuffix(line, headingMarker) {
		return Block{}, false
	}
	// Strips every marker in the line, not only the wrapping pair.
	return Heading(strings.ReplaceAll(line, headingMarker, "")), true
}

func matchNote(line string) (Block, bool) {
	if utf8.RuneCountInString(line) < minNoteRunes ||
		!strings.HasPrefix(line, noteMarker) || !strings.HasSuffix(line, noteMarker) {
		return Block{}, false
	}
	return Note(strings.ReplaceAll(line, noteMarker, "")), true
}

func matchDivider(line string) (Block, bool) {
	if line != dividerLine {
		return Block{}, false
	}
	return Divider(), true
}

func matchBlank(line string) (Block, bool) {
	if strings.TrimSpace(line) != "" {
		return Block{}, false
	}
	return Blank(), true
}

func matchParagraph(line string) (Block, bool) {
	return Paragraph(line), true
}
