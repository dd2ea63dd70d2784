// Package render splits assistant messages into plain text and fenced code
// so each front-end can style them its own way.
package render

import "strings"

const fence = "```"

// Kind tells plain text from code
type Kind int

const (
	KindText Kind = iota
	KindCode
)

// Segment is one piece of a rendered message
type Segment struct {
	Kind Kind
	// Lang is the language tag of a code segment, empty when absent
	Lang string
	// Text holds plain text or the code body
	Text string
}

// Segments splits content on ``` markers. Even pieces are plain text and odd
// pieces are code. A code piece whose first line break is not at position 0
// uses the trimmed first line as its language tag and the rest as the body.
// Content without markers yields a single text segment. Empty pieces are kept
// so segment positions line up with the markers.
func Segments(content string) []Segment {
	if !strings.Contains(content, fence) {
		return []Segment{{Kind: KindText, Text: content}}
	}

	parts := strings.Split(content, fence)
	segments := make([]Segment, 0, len(parts))

	for i, part := range parts {
		if i%2 == 0 {
			segments = append(segments, Segment{Kind: KindText, Text: part})
			continue
		}

		seg := Segment{Kind: KindCode, Text: part}
		if nl := strings.IndexByte(part, '\n'); nl > 0 {
			seg.Lang = strings.TrimSpace(part[:nl])
			seg.Text = part[nl+1:]
		}
		segments = append(segments, seg)
	}

	return segments
}

// Fenced turns a code segment back into a markdown fence that a highlighter
// can render on its own
func Fenced(seg Segment) string {
	body := seg.Text
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return fence + seg.Lang + "\n" + body + fence + "\n"
}

// Lines splits plain text into display lines, in order
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// HasCode reports whether content carries at least one code segment
func HasCode(content string) bool {
	for _, seg := range Segments(content) {
		if seg.Kind == KindCode {
			return true
		}
	}
	return false
}
