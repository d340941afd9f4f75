// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/poriyaalar/suvadi/internal/drill"
	"github.com/poriyaalar/suvadi/internal/layout"
)

type styledChar struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledChars styles the segmented target per logical character: typed
// characters, the character under the cursor, and pending ones. A missed
// keystroke turns the current character red until it is typed correctly.
func buildStyledChars(chars []drill.Char, charIndex int, lastWrong bool) []styledChar {
	out := make([]styledChar, 0, len(chars))
	for i, ch := range chars {
		display := ch.Text
		var style = pendingStyle
		switch {
		case i < charIndex:
			style = correctStyle
		case i == charIndex && lastWrong:
			style = incorrectStyle.Underline(true)
		case i == charIndex:
			style = cursorStyle
		}
		if ch.Text == " " && i == charIndex {
			display = "·"
		}
		out = append(out, styledChar{
			s:       style.Render(display),
			width:   runewidth.StringWidth(ch.Text),
			isSpace: ch.Text == " ",
		})
	}
	return out
}

func renderStyledChars(chars []styledChar) string {
	var b strings.Builder
	for _, item := range chars {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledChars breaks the styled line at spaces to fit width.
func wrapStyledChars(chars []styledChar, width int) string {
	if width <= 0 {
		return renderStyledChars(chars)
	}
	var out strings.Builder
	line := make([]styledChar, 0, len(chars))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(chars); {
		item := chars[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledChars(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledChar{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledChars(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledChars(line))
	return out.String()
}

func lineWidthOf(line []styledChar) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledChar) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// hintFor names the next expected key for the on-screen guide.
func hintFor(stroke layout.KeyStroke) string {
	label := string(stroke.Key)
	if stroke.Key == ' ' {
		label = "space"
	}
	if stroke.Shift {
		return "shift+" + label
	}
	return label
}
