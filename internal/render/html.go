// ABOUTME: HTML transcript export for a conversation
// ABOUTME: Paragraphs go through goldmark; other blocks map directly to HTML elements

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"

	"github.com/2389/sazon-chat/internal/content"
	"github.com/2389/sazon-chat/internal/conversation"
	"github.com/2389/sazon-chat/internal/i18n"
)

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; color: #222; }
.user { text-align: right; margin: 1rem 0; }
.user span { background: #b91c1c; color: #fff; padding: .5rem .75rem; border-radius: .75rem; display: inline-block; }
.assistant { background: #f5f5f4; padding: .75rem 1rem; border-radius: .75rem; margin: 1rem 0; }
.assistant h3 { color: #b91c1c; margin: .5rem 0; }
.note { color: #78716c; font-style: italic; }
.sources { color: #78716c; font-size: .85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="sources">{{.Subtitle}} · {{.Exported}}</p>
{{range .Messages}}{{if .User}}<div class="user"><span>{{.Text}}</span></div>
{{else}}<div class="assistant">
{{range .Blocks}}{{if eq .Kind "heading"}}<h3>{{.Text}}</h3>
{{else if eq .Kind "note"}}<p class="note">{{.Text}}</p>
{{else if eq .Kind "divider"}}<hr>
{{else if eq .Kind "blank"}}<br>
{{else if eq .Kind "video"}}<iframe width="560" height="315" src="{{.Src}}" title="YouTube video" allowfullscreen></iframe>
{{else if eq .Kind "image"}}<img src="{{.Src}}" alt="{{.Text}}">
{{else}}{{.HTML}}{{end}}{{end}}{{if .Sources}}<p class="sources">{{$.SourcesLabel}}: {{range $i, $s := .Sources}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
{{end}}</div>
{{end}}{{end}}</body>
</html>
`))

type transcriptView struct {
	Lang         string
	Title        string
	Subtitle     string
	Exported     string
	SourcesLabel string
	Messages     []messageView
}

type messageView struct {
	User    bool
	Text    string
	Blocks  []blockView
	Sources []string
}

type blockView struct {
	Kind string
	Text string
	Src  string
	HTML template.HTML
}

// HTML writes msgs as a standalone HTML page using the labels for locale.
func HTML(w io.Writer, locale i18n.Locale, msgs []conversation.Message, exported time.Time) error {
	s := i18n.Lookup(locale)
	view := transcriptView{
		Lang:         string(locale),
		Title:        s.Title + " · " + s.ChatTitle,
		Subtitle:     s.Subtitle,
		Exported:     exported.Format(time.RFC1123),
		SourcesLabel: s.Sources,
	}

	for _, m := range msgs {
		if m.Role == conversation.RoleUser {
			view.Messages = append(view.Messages, messageView{User: true, Text: m.Content})
			continue
		}
		blocks := m.Blocks
		if blocks == nil {
			blocks = content.Parse(m.Content)
		}
		mv := messageView{Sources: m.Sources}
		for _, b := range blocks {
			bv, err := blockToView(b)
			if err != nil {
				return err
			}
			mv.Blocks = append(mv.Blocks, bv)
		}
		view.Messages = append(view.Messages, mv)
	}

	if err := transcriptTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("rendering transcript: %w", err)
	}
	return nil
}

func blockToView(b content.Block) (blockView, error) {
	bv := blockView{Kind: b.Kind.String(), Text: b.Text}
	switch b.Kind {
	case content.KindVideo:
		bv.Src = youtubeEmbedURL + b.VideoID
	case content.KindImage:
		bv.Text = b.Alt
		bv.Src = b.URL
	case content.KindParagraph:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(b.Text), &buf); err != nil {
			return bv, fmt.Errorf("converting paragraph: %w", err)
		}
		// goldmark escapes text and omits raw HTML by default
		bv.HTML = template.HTML(buf.String())
	}
	return bv, nil
}
