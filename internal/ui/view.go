package ui

import (
	"strings"

	"github.com/atomicstack/coco/internal/ui/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

type styledLine struct {
	text        string
	marker      string
	style       *lipgloss.Style
	markerStyle *lipgloss.Style
	highlight   bool
	raw         bool // text is pre-styled; use ANSI-aware truncation
}

// View implements tea.Model. Candidate rows come from the render projection
// so both backends agree on what is on screen.
func (m *Model) View() string {
	height := max(1, m.height)
	frame := render.Project(m.session, m.width, height, m.prompt)
	lines := make([]styledLine, height)
	lines[0] = styledLine{text: m.headerText(), raw: true}
	for _, op := range frame.Ops {
		if op.Y <= 0 || op.Y >= height {
			continue
		}
		line := &lines[op.Y]
		switch op.Kind {
		case render.OpText:
			if op.X < render.TextColumn {
				line.marker = op.Text
				line.markerStyle = styles.Marker
			} else {
				line.text = op.Text
				line.style = styles.Item
			}
		case render.OpAttr:
			line.highlight = true
		}
	}
	lines = applyWidth(lines, m.width)
	return renderLines(lines, m.width)
}

func (m *Model) headerText() string {
	left := m.filterPrompt()
	status := render.StatusText(m.session)
	gap := m.width - 1 - lipgloss.Width(status) - lipgloss.Width(left)
	if gap < 1 {
		return left
	}
	if styles.Status != nil {
		status = styles.Status.Render(status)
	}
	return left + strings.Repeat(" ", gap) + status
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width), ellipsis)
			}
		} else {
			text = truncateText(text, width-render.TextColumn)
		}
		result[i] = styledLine{
			text:        text,
			marker:      line.marker,
			style:       line.style,
			markerStyle: line.markerStyle,
			highlight:   line.highlight,
			raw:         line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine, width int) string {
	paint := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw {
			out[i] = line.text
			continue
		}
		if line.marker == "" && line.text == "" && !line.highlight {
			continue
		}
		prefix := line.marker + strings.Repeat(" ", max(0, render.TextColumn-lipgloss.Width(line.marker)))
		if line.highlight {
			body := prefix + line.text
			if pad := width - lipgloss.Width(body); pad > 0 {
				body += strings.Repeat(" ", pad)
			}
			out[i] = paint(styles.SelectedItem, body)
			continue
		}
		out[i] = paint(line.markerStyle, prefix) + paint(line.style, line.text)
	}
	return strings.Join(out, "\n")
}

// truncateText shortens text to width display cells, ending in an ellipsis
// when anything was cut.
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), ellipsis)
}

