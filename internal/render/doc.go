// Package render draws parsed reply blocks for people to read.
//
// Terminal writes blocks as styled lines using fatih/color: headings bold
// red, notes faint italic, dividers as a rule, media as links. HTML writes
// a whole conversation as a standalone transcript page; paragraph text goes
// through goldmark so inline emphasis and links survive, while headings,
// notes and media map one-to-one onto HTML elements.
package render
