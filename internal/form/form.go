// Package form normalises and validates the story request form.
package form

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"basegraph.app/storyforge/internal/model"
)

const (
	MaxTitleLength = 100
	MinComplexity  = 1
	MaxComplexity  = 21

	forbiddenTitleChars = "!@#$%^&*()"
)

// FibonacciScale is the planning-poker scale complexity is expected to follow.
var FibonacciScale = []int{1, 2, 3, 5, 8, 13, 21}

// Field names used as keys in ValidationErrors.
const (
	FieldTitle              = "title"
	FieldBusinessRules      = "business_rules"
	FieldAPIs               = "apis"
	FieldComplexity         = "complexity"
	FieldAcceptanceCriteria = "acceptance_criteria"
)

// ValidationErrors maps a field name to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Result is the outcome of Validate. Warnings never block generation.
type Result struct {
	Input    model.StoryInput
	Errors   ValidationErrors
	Warnings []string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns Errors as an error, or nil when the form is valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Errors
}

// Normalize trims every field and drops blank list items. It never fails.
func Normalize(in model.StoryInput) model.StoryInput {
	out := model.StoryInput{
		Title:              strings.TrimSpace(in.Title),
		BusinessRules:      CleanList(in.BusinessRules),
		APIs:               CleanList(in.APIs),
		Objectives:         in.Objectives.Trimmed(),
		Complexity:         in.Complexity,
		AcceptanceCriteria: CleanList(in.AcceptanceCriteria),
	}
	if !in.APISpec.IsZero() {
		spec := model.APISpec{
			Endpoint:       strings.TrimSpace(in.APISpec.Endpoint),
			Parameters:     strings.TrimSpace(in.APISpec.Parameters),
			ResponseFormat: strings.TrimSpace(in.APISpec.ResponseFormat),
			ErrorHandling:  strings.TrimSpace(in.APISpec.ErrorHandling),
			Documentation:  strings.TrimSpace(in.APISpec.Documentation),
		}
		out.APISpec = &spec
	}
	return out
}

// Validate normalises the input and checks every field. Objectives are optional.
func Validate(in model.StoryInput) Result {
	res := Result{Input: Normalize(in), Errors: ValidationErrors{}}

	if msg := validateTitle(in.Title); msg != "" {
		res.Errors[FieldTitle] = msg
	}
	if len(res.Input.BusinessRules) == 0 {
		res.Errors[FieldBusinessRules] = "Regras de Negócio deve ter pelo menos 1 item(ns)"
	}
	if len(res.Input.APIs) == 0 {
		res.Errors[FieldAPIs] = "APIs/Serviços deve ter pelo menos 1 item(ns)"
	}
	if len(res.Input.AcceptanceCriteria) == 0 {
		res.Errors[FieldAcceptanceCriteria] = "Critérios de Aceitação deve ter pelo menos 1 item(ns)"
	}

	switch {
	case in.Complexity < MinComplexity:
		res.Errors[FieldComplexity] = fmt.Sprintf("Complexidade deve ser no mínimo %d", MinComplexity)
	case in.Complexity > MaxComplexity:
		res.Errors[FieldComplexity] = fmt.Sprintf("Complexidade não pode ser maior que %d", MaxComplexity)
	case !IsFibonacci(in.Complexity):
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"Complexidade %d não está na escala Fibonacci (1, 2, 3, 5, 8, 13, 21)", in.Complexity))
	}

	return res
}

func validateTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Título não pode estar vazio"
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Sprintf("Título não pode ter mais de %d caracteres", MaxTitleLength)
	}
	if strings.ContainsAny(title, forbiddenTitleChars) {
		return "Título não pode conter caracteres especiais (!@#$%^&*())"
	}
	return ""
}

func IsFibonacci(n int) bool {
	for _, f := range FibonacciScale {
		if f == n {
			return true
		}
	}
	return false
}

// CleanList trims items and drops blank ones. Returns a non-nil slice.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
