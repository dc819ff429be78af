// Package content turns raw agent reply text into typed, renderable blocks.
//
// # Overview
//
// Replies use a minimal line-oriented markup. Every input line becomes
// exactly one Block, in input order, and parsing never fails:
//
//	blocks := content.Parse("**Pozole**\n*serves 8*\n---\nBoil the hominy.")
//
// # Rules
//
// Each line is tested against an ordered rule list. The first rule that
// matches produces the block:
//
//  1. video      "- VIDEO:<id>" (line trimmed)   -> KindVideo
//  2. image      "![alt](url)" anywhere in line   -> KindImage
//  3. heading    "**...**", at least 4 chars      -> KindHeading
//  4. note       "*...*", at least 3 chars        -> KindNote
//  5. divider    exactly "---"                    -> KindDivider
//  6. blank      empty or whitespace only         -> KindBlank
//  7. paragraph  anything else, verbatim          -> KindParagraph
//
// Heading text has every "**" in the line removed and note text every "*",
// not just the wrapping markers. "**Chile** and **ajo**" therefore becomes
// the heading "Chile and ajo".
package content
