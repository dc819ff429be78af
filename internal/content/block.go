// ABOUTME: ContentBlock tagged variant produced by the reply parser
// ABOUTME: One Block per input line; Kind selects which fields are meaningful

package content

// Kind identifies the variant of a Block
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindNote
	KindDivider
	KindBlank
	KindVideo
	KindImage
)

var kindNames = map[Kind]string{
	KindParagraph: "paragraph",
	KindHeading:   "heading",
	KindNote:      "note",
	KindDivider:   "divider",
	KindBlank:     "blank",
	KindVideo:     "video",
	KindImage:     "image",
}

// String returns the lowercase kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Block is one renderable unit of a reply.
//
//   - Heading, Note, Paragraph: Text
//   - VideoEmbed: VideoID
//   - ImageEmbed: Alt, URL
//   - Divider, Blank: no fields
type Block struct {
	Kind    Kind
	Text    string
	VideoID string
	Alt     string
	URL     string
}

// Heading returns a heading block
func Heading(text string) Block { return Block{Kind: KindHeading, Text: text} }

// Note returns a note block
func Note(text string) Block { return Block{Kind: KindNote, Text: text} }

// Paragraph returns a paragraph block
func Paragraph(text string) Block { return Block{Kind: KindParagraph, Text: text} }

// Divider returns a divider block
func Divider() Block { return Block{Kind: KindDivider} }

// Blank returns a blank block
func Blank() Block { return Block{Kind: KindBlank} }

// VideoEmbed returns a video block for the given video id
func VideoEmbed(id string) Block { return Block{Kind: KindVideo, VideoID: id} }

// ImageEmbed returns an image block
func ImageEmbed(alt, url string) Block { return Block{Kind: KindImage, Alt: alt, URL: url} }
