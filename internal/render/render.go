package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-session-repair/internal/chain"
	"github.com/Zuo-Peng/ai-session-repair/internal/repair"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

const (
	colorReset  = "\033[0m"
	colorUser   = "\033[1;34m" // bold blue
	colorAssist = "\033[1;32m" // bold green
	colorSystem = "\033[2;35m" // dim magenta
	colorDim    = "\033[2m"
	colorMark   = "\033[1;33m" // bold yellow for checkpoint markers
	colorDead   = "\033[1;31m" // bold red for the death zone
)

type Options struct {
	Interval int
	MaxGapMs int
	Width    int // wrap width (0 = no wrap)
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func roleLabel(e *transcript.Entry) (string, string) {
	switch e.Type {
	case "user":
		return "USER", colorUser
	case "assistant":
		return "ASST", colorAssist
	case "system":
		return "SYS ", colorSystem
	default:
		return strings.ToUpper(e.Type), colorDim
	}
}

// RenderPlan renders the dry-run repair plan for a session file: the
// chronological chain, candidate checkpoint positions, and the death
// zone. The file is never modified.
func RenderPlan(path string, opts Options) (string, error) {
	lines, err := transcript.ParseFile(path)
	if err != nil {
		return "", err
	}
	nodes := chain.Build(lines)
	if len(nodes) == 0 {
		return "(no conversation chain)", nil
	}

	maxGap := repair.DefaultMaxGap
	if opts.MaxGapMs > 0 {
		maxGap = time.Duration(opts.MaxGapMs) * time.Millisecond
	}
	sel := repair.SelectBreaks(nodes, repair.SelectOptions{
		Interval:       opts.Interval,
		StartFileIndex: repair.StartFileIndex(lines),
		MaxGap:         maxGap,
	})

	breaks := make(map[int]bool, len(sel.Indices))
	for _, i := range sel.Indices {
		breaks[i] = true
	}

	var b strings.Builder
	wrapW := opts.Width
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, wrapW) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	first := nodes[0].Entry
	writeLine(fmt.Sprintf("%s--- %s [%s] ---%s", colorDim, path, first.Cwd, colorReset))

	for i, n := range nodes {
		e := n.Entry
		label, color := roleLabel(e)
		dead := i >= sel.DeathIndex

		header := fmt.Sprintf("%s%s >%s %s%s%s", color, label, colorReset, colorDim, e.Timestamp, colorReset)
		if dead {
			header = fmt.Sprintf("%sDEAD %s > %s%s", colorDead, label, e.Timestamp, colorReset)
		}
		writeLine(header)

		if text := e.FirstText(); text != "" {
			snippet := strings.ReplaceAll(text, "\n", " ")
			if runewidth.StringWidth(snippet) > 80 {
				snippet = runewidth.Truncate(snippet, 80, "...")
			}
			writeLine(indentLines(colorDim+snippet+colorReset, "  "))
		}

		if breaks[i] {
			writeLine(fmt.Sprintf("%s>>> CHECKPOINT after chain position %d <<<%s", colorMark, i, colorReset))
		}
	}

	writeLine("")
	writeLine(fmt.Sprintf("%schain=%d candidates=%d death_index=%d dead_excluded=%d%s",
		colorDim, len(nodes), len(sel.Indices), sel.DeathIndex, sel.DeadExcluded, colorReset))
	return b.String(), nil
}
