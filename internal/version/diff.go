package version

import (
	"fmt"
	"html"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"basegraph.app/storyforge/internal/model"
)

// Context line counts for the two renderings.
const (
	HTMLContext    = 3
	UnifiedContext = 1
)

type OpTag string

const (
	OpEqual   OpTag = "equal"
	OpInsert  OpTag = "insert"
	OpDelete  OpTag = "delete"
	OpReplace OpTag = "replace"
)

// Opcode turns a[A1:A2] into b[B1:B2]. Indices are 0-based line offsets.
type Opcode struct {
	Tag OpTag `json:"tag"`
	A1  int   `json:"a1"`
	A2  int   `json:"a2"`
	B1  int   `json:"b1"`
	B2  int   `json:"b2"`
}

func (o Opcode) mirror() Opcode {
	tag := o.Tag
	switch tag {
	case OpInsert:
		tag = OpDelete
	case OpDelete:
		tag = OpInsert
	}
	return Opcode{Tag: tag, A1: o.B1, A2: o.B2, B1: o.A1, B2: o.A2}
}

// Lines splits text the way the diff sees it.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n"), "\n")
}

// Diff computes line opcodes from a to b. The matcher always runs in one
// canonical orientation and the result is mirrored when needed, so
// Diff(a, b) and Diff(b, a) change exactly the same lines.
func Diff(a, b string) []Opcode {
	la, lb := Lines(a), Lines(b)
	if a <= b {
		return opcodes(la, lb)
	}
	ops := opcodes(lb, la)
	for i := range ops {
		ops[i] = ops[i].mirror()
	}
	return ops
}

func opcodes(a, b []string) []Opcode {
	m := difflib.NewMatcher(a, b)
	raw := m.GetOpCodes()

	ops := make([]Opcode, 0, len(raw))
	for _, op := range raw {
		ops = append(ops, Opcode{
			Tag: tagOf(op.Tag),
			A1:  op.I1,
			A2:  op.I2,
			B1:  op.J1,
			B2:  op.J2,
		})
	}
	return ops
}

func tagOf(b byte) OpTag {
	switch b {
	case 'r':
		return OpReplace
	case 'd':
		return OpDelete
	case 'i':
		return OpInsert
	default:
		return OpEqual
	}
}

// HasChanges reports whether any opcode is not equal.
func HasChanges(ops []Opcode) bool {
	for _, op := range ops {
		if op.Tag != OpEqual {
			return true
		}
	}
	return false
}

// ChangedLines returns the removed line offsets of a and the added line offsets of b.
func ChangedLines(ops []Opcode) (removed, added []int) {
	for _, op := range ops {
		if op.Tag == OpEqual {
			continue
		}
		for i := op.A1; i < op.A2; i++ {
			removed = append(removed, i)
		}
		for j := op.B1; j < op.B2; j++ {
			added = append(added, j)
		}
	}
	return removed, added
}

// groupOpcodes splits ops into hunks with up to n lines of context, dropping
// hunks that contain no change.
func groupOpcodes(ops []Opcode, n int) [][]Opcode {
	if !HasChanges(ops) {
		return nil
	}
	codes := make([]Opcode, len(ops))
	copy(codes, ops)

	if first := codes[0]; first.Tag == OpEqual {
		codes[0] = Opcode{OpEqual, max(first.A1, first.A2-n), first.A2, max(first.B1, first.B2-n), first.B2}
	}
	if last := codes[len(codes)-1]; last.Tag == OpEqual {
		codes[len(codes)-1] = Opcode{OpEqual, last.A1, min(last.A2, last.A1+n), last.B1, min(last.B2, last.B1+n)}
	}

	var (
		groups [][]Opcode
		group  []Opcode
	)
	for _, c := range codes {
		if c.Tag == OpEqual && c.A2-c.A1 > 2*n {
			group = append(group, Opcode{OpEqual, c.A1, min(c.A2, c.A1+n), c.B1, min(c.B2, c.B1+n)})
			groups = append(groups, group)
			group = nil
			c.A1, c.B1 = max(c.A1, c.A2-n), max(c.B1, c.B2-n)
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].Tag == OpEqual) {
		groups = append(groups, group)
	}
	return groups
}

// Unified renders a unified diff with n context lines. Identical inputs render as "".
func Unified(a, b, fromName, toName string, n int) string {
	la, lb := Lines(a), Lines(b)
	groups := groupOpcodes(Diff(a, b), n)
	if len(groups) == 0 {
		return ""
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "--- %s\n+++ %s\n", fromName, toName)
	for _, g := range groups {
		first, last := g[0], g[len(g)-1]
		fmt.Fprintf(&buf, "@@ -%s +%s @@\n",
			unifiedRange(first.A1, last.A2), unifiedRange(first.B1, last.B2))
		for _, c := range g {
			if c.Tag == OpEqual {
				for _, line := range la[c.A1:c.A2] {
					buf.WriteString(" " + line + "\n")
				}
				continue
			}
			for _, line := range la[c.A1:c.A2] {
				buf.WriteString("-" + line + "\n")
			}
			for _, line := range lb[c.B1:c.B2] {
				buf.WriteString("+" + line + "\n")
			}
		}
	}
	return buf.String()
}

func unifiedRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

// SideBySideHTML renders a two-column HTML table with n context lines around
// each change. Row classes: diff_sub (removed), diff_add (added), diff_chg (replaced).
func SideBySideHTML(a, b, fromDesc, toDesc string, n int) string {
	la, lb := Lines(a), Lines(b)
	groups := groupOpcodes(Diff(a, b), n)

	var buf strings.Builder
	buf.WriteString(`<table class="diff" summary="Comparação de versões">` + "\n")
	fmt.Fprintf(&buf, `<thead><tr><th colspan="2">%s</th><th colspan="2">%s</th></tr></thead>`+"\n",
		html.EscapeString(fromDesc), html.EscapeString(toDesc))
	buf.WriteString("<tbody>\n")

	if len(groups) == 0 {
		buf.WriteString(`<tr><td colspan="4" class="diff_none">Nenhuma diferença encontrada</td></tr>` + "\n")
	}
	for gi, g := range groups {
		if gi > 0 {
			buf.WriteString(`<tr class="diff_sep"><td colspan="4">&hellip;</td></tr>` + "\n")
		}
		for _, c := range g {
			writeHTMLRows(&buf, la, lb, c)
		}
	}

	buf.WriteString("</tbody>\n</table>\n")
	return buf.String()
}

func writeHTMLRows(buf *strings.Builder, la, lb []string, c Opcode) {
	class := ""
	switch c.Tag {
	case OpInsert:
		class = "diff_add"
	case OpDelete:
		class = "diff_sub"
	case OpReplace:
		class = "diff_chg"
	}

	rows := max(c.A2-c.A1, c.B2-c.B1)
	for k := 0; k < rows; k++ {
		i, j := c.A1+k, c.B1+k
		left, right := cell(la, i, c.A2), cell(lb, j, c.B2)
		if class == "" {
			buf.WriteString("<tr>")
		} else {
			fmt.Fprintf(buf, `<tr class="%s">`, class)
		}
		buf.WriteString(left + right + "</tr>\n")
	}
}

func cell(lines []string, i, end int) string {
	if i >= end {
		return `<td class="diff_next"></td><td></td>`
	}
	return fmt.Sprintf(`<td class="diff_next">%d</td><td>%s</td>`, i+1, html.EscapeString(lines[i]))
}

// Comparison is the result of comparing two versions.
type Comparison struct {
	From     model.Version `json:"from"`
	To       model.Version `json:"to"`
	ContentA string        `json:"content_a"`
	ContentB string        `json:"content_b"`
	Opcodes  []Opcode      `json:"opcodes"`
	Unified  string        `json:"unified"`
	HTML     string        `json:"html"`
}

func NewComparison(from, to model.Version) Comparison {
	a, b := from.Content.Body, to.Content.Body
	fromName := fmt.Sprintf("Versão %d", from.Number)
	toName := fmt.Sprintf("Versão %d", to.Number)

	return Comparison{
		From:     from,
		To:       to,
		ContentA: a,
		ContentB: b,
		Opcodes:  Diff(a, b),
		Unified:  Unified(a, b, fromName, toName, UnifiedContext),
		HTML:     SideBySideHTML(a, b, fromName, toName, HTMLContext),
	}
}

func (c Comparison) HasChanges() bool {
	return HasChanges(c.Opcodes)
}
