// ABOUTME: Terminal renderer for reply blocks using fatih/color styles
// ABOUTME: One output line per block so the reply keeps its original shape

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/sazon-chat/internal/content"
)

const (
	youtubeWatchURL = "https://www.youtube.com/watch?v="
	youtubeEmbedURL = "https://www.youtube.com/embed/"

	defaultRuleWidth = 40
)

// Terminal renders blocks as styled terminal lines.
type Terminal struct {
	heading *color.Color
	note    *color.Color
	rule    *color.Color
	media   *color.Color
	dim     *color.Color
	width   int
}

// NewTerminal creates a renderer. With colored false every style is plain
// text, which is what tests and non-tty output want.
func NewTerminal(colored bool) *Terminal {
	t := &Terminal{
		heading: color.New(color.FgRed, color.Bold),
		note:    color.New(color.Faint, color.Italic),
		rule:    color.New(color.FgHiBlack),
		media:   color.New(color.FgCyan, color.Underline),
		dim:     color.New(color.FgHiBlack),
		width:   defaultRuleWidth,
	}
	for _, c := range []*color.Color{t.heading, t.note, t.rule, t.media, t.dim} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Block returns the single line for b, without a trailing newline.
func (t *Terminal) Block(b content.Block) string {
	switch b.Kind {
	case content.KindHeading:
		return t.heading.Sprint(b.Text)
	case content.KindNote:
		return t.note.Sprint(b.Text)
	case content.KindDivider:
		return t.rule.Sprint(strings.Repeat("─", t.width))
	case content.KindBlank:
		return ""
	case content.KindVideo:
		return "▶ " + t.media.Sprint(youtubeWatchURL+b.VideoID)
	case content.KindImage:
		alt := b.Alt
		if alt == "" {
			alt = "image"
		}
		return fmt.Sprintf("[%s] %s", alt, t.media.Sprint(b.URL))
	default:
		return b.Text
	}
}

// Reply writes every block on its own line.
func (t *Terminal) Reply(w io.Writer, blocks []content.Block) error {
	for _, b := range blocks {
		if _, err := fmt.Fprintln(w, t.Block(b)); err != nil {
			return err
		}
	}
	return nil
}

// Sources returns the dimmed "label: a, b" line, or "" when there are none.
func (t *Terminal) Sources(label string, sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	return t.dim.Sprintf("%s: %s", label, strings.Join(sources, ", "))
}
