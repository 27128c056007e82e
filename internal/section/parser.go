// Package section splits generated stories into heading-delimited sections
// and puts them back together.
package section

import (
	"regexp"
	"sort"
	"strings"

	"basegraph.app/storyforge/common"
)

// Canonical section labels, in document order.
const (
	Context            = "Contexto"
	Objective          = "Objetivo"
	BusinessRules      = "Regras de Negocio"
	APIs               = "APIs e Servicos Necessarios"
	TechnicalGoals     = "Objetivos Tecnicos"
	AcceptanceCriteria = "Criterios de Aceitacao"
	TestScenarios      = "Cenarios de Teste Sugeridos"
	Complexity         = "Complexidade"
	TechnicalStructure = "Estrutura Tecnica"
	Benefits           = "Beneficios"
)

// CanonicalOrder is the order MergeSections writes sections in.
var CanonicalOrder = []string{
	Context,
	Objective,
	BusinessRules,
	APIs,
	TechnicalGoals,
	AcceptanceCriteria,
	TestScenarios,
	Complexity,
}

// regenerable maps the short keys used by partial regeneration to labels.
var regenerable = map[string]string{
	"criterios":   AcceptanceCriteria,
	"testes":      TestScenarios,
	"arquitetura": TechnicalStructure,
	"beneficios":  Benefits,
}

// LabelForKey resolves a regeneration key such as "criterios".
func LabelForKey(key string) (string, bool) {
	label, ok := regenerable[strings.ToLower(strings.TrimSpace(key))]
	return label, ok
}

// RegenerableKeys returns the accepted regeneration keys, sorted.
func RegenerableKeys() []string {
	keys := make([]string, 0, len(regenerable))
	for k := range regenerable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MatchMode controls how a requested label is compared with heading text.
type MatchMode int

const (
	// MatchFold compares case-insensitively with accents folded.
	MatchFold MatchMode = iota
	// MatchPrefix accepts headings that start with the folded label,
	// e.g. "Estrutura Tecnica/Arquitetura" for "Estrutura Tecnica".
	MatchPrefix
	// MatchExact requires byte equality after trimming.
	MatchExact
)

// Parser scans Markdown line by line. Only headings at exactly SectionDepth
// delimit sections; deeper or shallower headings are body text. Lines inside
// fenced code blocks are never headings.
type Parser struct {
	TitleDepth   int
	SectionDepth int
	Match        MatchMode
}

// Default parses "##" titles and "###" sections with folded label matching.
var Default = Parser{TitleDepth: 2, SectionDepth: 3, Match: MatchFold}

// Lenient is Default with prefix matching, so "### Criterios de Aceitacao
// (Gherkin)" still answers to "Criterios de Aceitacao".
var Lenient = Parser{TitleDepth: 2, SectionDepth: 3, Match: MatchPrefix}

type heading struct {
	line  int
	label string
}

// ExtractSections maps each section label to its trimmed body. When a label
// repeats, the last occurrence wins.
func (p Parser) ExtractSections(body string) map[string]string {
	lines := splitLines(body)
	heads := p.headings(lines, p.SectionDepth)

	sections := make(map[string]string, len(heads))
	for i, h := range heads {
		end := len(lines)
		if i+1 < len(heads) {
			end = heads[i+1].line
		}
		sections[h.label] = strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))
	}
	return sections
}

// Labels returns section labels in document order, duplicates included.
func (p Parser) Labels(body string) []string {
	heads := p.headings(splitLines(body), p.SectionDepth)
	labels := make([]string, len(heads))
	for i, h := range heads {
		labels[i] = h.label
	}
	return labels
}

// ExtractTitle returns the text of the first title heading, or "".
func (p Parser) ExtractTitle(body string) string {
	heads := p.headings(splitLines(body), p.TitleDepth)
	if len(heads) == 0 {
		return ""
	}
	return heads[0].label
}

// HasTitle reports whether body carries at least one title heading.
func (p Parser) HasTitle(body string) bool {
	return p.ExtractTitle(body) != ""
}

// ReplaceSection swaps every section matching label for newText, keeping the
// following heading intact. newText gets a canonical heading when it lacks one.
// An absent label returns body unchanged.
func (p Parser) ReplaceSection(body, label, newText string) string {
	lines := splitLines(body)
	heads := p.headings(lines, p.SectionDepth)

	replacement := p.withHeading(label, newText)

	var (
		out      []string
		cursor   int
		replaced bool
	)
	for i, h := range heads {
		if !p.matches(h.label, label) {
			continue
		}
		end := len(lines)
		if i+1 < len(heads) {
			end = heads[i+1].line
		}
		out = append(out, lines[cursor:h.line]...)
		out = append(out, replacement)
		if end < len(lines) {
			out = append(out, "")
		}
		cursor = end
		replaced = true
	}
	if !replaced {
		return body
	}
	out = append(out, lines[cursor:]...)

	result := strings.Join(out, "\n")
	if strings.HasSuffix(body, "\n") && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

func (p Parser) withHeading(label, text string) string {
	text = strings.TrimSpace(text)
	if depth, _ := headingDepth(firstLine(text)); depth != p.SectionDepth {
		text = p.headingPrefix() + label + "\n\n" + text
	}
	return text
}

// MergeSections rebuilds a document from the title heading and the canonical
// sections in order. Missing sections are skipped and labels outside
// CanonicalOrder are dropped.
func (p Parser) MergeSections(title string, sections map[string]string) string {
	var parts []string
	if t := strings.TrimSpace(title); t != "" {
		parts = append(parts, strings.Repeat("#", p.TitleDepth)+" "+t+"\n")
	}

	keys := make([]string, 0, len(sections))
	for key := range sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	used := make(map[string]bool, len(sections))
	for _, label := range CanonicalOrder {
		for _, key := range keys {
			if used[key] || !p.matches(key, label) {
				continue
			}
			parts = append(parts, p.headingPrefix()+label+"\n\n"+strings.TrimSpace(sections[key])+"\n")
			used[key] = true
			break
		}
	}

	return strings.Join(parts, "\n")
}

// Lookup finds a section body by label using the parser's match mode.
func (p Parser) Lookup(sections map[string]string, label string) (string, bool) {
	if text, ok := sections[label]; ok {
		return text, true
	}
	for key, text := range sections {
		if p.matches(key, label) {
			return text, true
		}
	}
	return "", false
}

func (p Parser) headingPrefix() string {
	return strings.Repeat("#", p.SectionDepth) + " "
}

func (p Parser) headings(lines []string, depth int) []heading {
	var (
		heads   []heading
		inFence bool
	)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		d, text := headingDepth(line)
		if d == depth && text != "" {
			heads = append(heads, heading{line: i, label: text})
		}
	}
	return heads
}

func (p Parser) matches(heading, label string) bool {
	switch p.Match {
	case MatchExact:
		return strings.TrimSpace(heading) == strings.TrimSpace(label)
	case MatchPrefix:
		h, l := fold(heading), fold(label)
		return l != "" && strings.HasPrefix(h, l)
	default:
		return fold(heading) == fold(label)
	}
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(common.FoldAccents(s)), " "))
}

// headingDepth returns the ATX depth of line and its text, or 0 when line is
// not a heading. Up to three leading spaces are allowed, as in CommonMark.
func headingDepth(line string) (int, string) {
	s := strings.TrimRight(line, " \t\r")
	indent := len(s) - len(strings.TrimLeft(s, " "))
	if indent > 3 {
		return 0, ""
	}
	s = s[indent:]

	depth := 0
	for depth < len(s) && s[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 {
		return 0, ""
	}
	rest := s[depth:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, ""
	}
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#"))
	return depth, text
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var (
	blankRuns      = regexp.MustCompile(`\n{3,}`)
	trailingSpaces = regexp.MustCompile(` +\n`)
)

// Sanitize collapses runs of blank lines, strips trailing spaces and trims.
func Sanitize(markdown string) string {
	markdown = blankRuns.ReplaceAllString(markdown, "\n\n")
	markdown = trailingSpaces.ReplaceAllString(markdown, "\n")
	return strings.TrimSpace(markdown)
}

// Package-level helpers use Default.

func ExtractSections(body string) map[string]string { return Default.ExtractSections(body) }

func ExtractTitle(body string) string { return Default.ExtractTitle(body) }

func ReplaceSection(body, label, newText string) string {
	return Default.ReplaceSection(body, label, newText)
}

func MergeSections(title string, sections map[string]string) string {
	return Default.MergeSections(title, sections)
}
