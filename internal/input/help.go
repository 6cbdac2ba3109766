package input

import (
	"strings"
)

const (
	helpGutter    = 2
	helpMinEffect = 8
	helpMinWidth  = 20
)

// HelpTable renders bindings as a two-column trigger/effect table fitted
// to the given terminal width. Long effect text wraps within its column;
// triggers wider than half the table are truncated. The table degrades
// to a narrow layout rather than failing.
func HelpTable(bindings []Binding, width int) string {
	if len(bindings) == 0 {
		return ""
	}
	if width < helpMinWidth {
		width = helpMinWidth
	}

	trigW := 0
	for _, b := range bindings {
		if n := len([]rune(b.Trigger)); n > trigW {
			trigW = n
		}
	}
	if half := width / 2; trigW > half {
		trigW = half
	}

	effW := width - trigW - helpGutter
	if effW < helpMinEffect {
		effW = helpMinEffect
	}

	indent := strings.Repeat(" ", trigW+helpGutter)

	var sb strings.Builder
	for _, b := range bindings {
		lines := wrapText(b.Effect, effW)
		if len(lines) == 0 {
			lines = []string{""}
		}

		trig := truncateText(b.Trigger, trigW)
		if pad := trigW + helpGutter - len([]rune(trig)); pad > 0 {
			trig += strings.Repeat(" ", pad)
		}
		sb.WriteString(strings.TrimRight(trig+lines[0], " "))
		sb.WriteByte('\n')

		for _, more := range lines[1:] {
			sb.WriteString(strings.TrimRight(indent+more, " "))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func truncateText(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}

func wrapText(s string, w int) []string {
	words := strings.Fields(s)
	var lines []string
	cur := ""
	for _, word := range words {
		switch {
		case cur == "":
			cur = word
		case len([]rune(cur))+1+len([]rune(word)) <= w:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	// Hard-break anything still wider than the column.
	var out []string
	for _, line := range lines {
		r := []rune(line)
		for len(r) > w {
			out = append(out, string(r[:w]))
			r = r[w:]
		}
		out = append(out, string(r))
	}
	return out
}
