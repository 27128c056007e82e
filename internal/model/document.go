package model

import (
	"strings"
	"time"
)

// Document is a generated user story together with the form input it came from.
type Document struct {
	ID                 int64      `json:"id,string"`
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	BusinessRules      []string   `json:"business_rules"`
	APIs               []string   `json:"apis"`
	Objectives         Objectives `json:"objectives"`
	Complexity         int        `json:"complexity"`
	AcceptanceCriteria []string   `json:"acceptance_criteria"`
	APISpec            *APISpec   `json:"api_spec,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Clone returns a deep copy. Versions hold clones so later edits never leak into history.
func (d Document) Clone() Document {
	c := d
	c.BusinessRules = cloneStrings(d.BusinessRules)
	c.APIs = cloneStrings(d.APIs)
	c.AcceptanceCriteria = cloneStrings(d.AcceptanceCriteria)
	if d.APISpec != nil {
		spec := *d.APISpec
		c.APISpec = &spec
	}
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Objectives holds the optional objective sub-fields of the form.
type Objectives struct {
	Como             string `json:"como,omitempty" yaml:"como"`
	Quero            string `json:"quero,omitempty" yaml:"quero"`
	ParaQue          string `json:"para_que,omitempty" yaml:"para_que"`
	ListagemMedicos  string `json:"listagem_medicos,omitempty" yaml:"listagem_medicos"`
	FiltrosBusca     string `json:"filtros_busca,omitempty" yaml:"filtros_busca"`
	ExibicaoHorarios string `json:"exibicao_horarios,omitempty" yaml:"exibicao_horarios"`
	Agendamento      string `json:"agendamento,omitempty" yaml:"agendamento"`
}

// ObjectiveEntry is one filled objective sub-field with its display label.
type ObjectiveEntry struct {
	Key   string
	Label string
	Value string
}

// Entries returns the non-blank sub-fields in form order, trimmed.
func (o Objectives) Entries() []ObjectiveEntry {
	all := []ObjectiveEntry{
		{"como", "Como", o.Como},
		{"quero", "Quero", o.Quero},
		{"para_que", "Para que", o.ParaQue},
		{"listagem_medicos", "Listagem de Médicos", o.ListagemMedicos},
		{"filtros_busca", "Filtros de Busca", o.FiltrosBusca},
		{"exibicao_horarios", "Exibição de Horários", o.ExibicaoHorarios},
		{"agendamento", "Agendamento", o.Agendamento},
	}

	entries := make([]ObjectiveEntry, 0, len(all))
	for _, e := range all {
		if v := strings.TrimSpace(e.Value); v != "" {
			e.Value = v
			entries = append(entries, e)
		}
	}
	return entries
}

// Trimmed returns a copy with every sub-field trimmed.
func (o Objectives) Trimmed() Objectives {
	return Objectives{
		Como:             strings.TrimSpace(o.Como),
		Quero:            strings.TrimSpace(o.Quero),
		ParaQue:          strings.TrimSpace(o.ParaQue),
		ListagemMedicos:  strings.TrimSpace(o.ListagemMedicos),
		FiltrosBusca:     strings.TrimSpace(o.FiltrosBusca),
		ExibicaoHorarios: strings.TrimSpace(o.ExibicaoHorarios),
		Agendamento:      strings.TrimSpace(o.Agendamento),
	}
}

// APISpec describes the endpoint a story implements, when the story is about an API.
type APISpec struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	Parameters     string `json:"parameters,omitempty" yaml:"parameters"`
	ResponseFormat string `json:"response_format,omitempty" yaml:"response_format"`
	ErrorHandling  string `json:"error_handling,omitempty" yaml:"error_handling"`
	Documentation  string `json:"documentation,omitempty" yaml:"documentation"`
}

func (s *APISpec) IsZero() bool {
	return s == nil || (strings.TrimSpace(s.Endpoint) == "" &&
		strings.TrimSpace(s.Parameters) == "" &&
		strings.TrimSpace(s.ResponseFormat) == "" &&
		strings.TrimSpace(s.ErrorHandling) == "" &&
		strings.TrimSpace(s.Documentation) == "")
}
