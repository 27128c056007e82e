// Package prompt renders generation requests. Output is deterministic for a given input.
package prompt

import (
	"fmt"
	"strings"

	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/section"
)

const notSpecified = "- Não especificado"

// StorySystem is sent as the system prompt on every story generation call.
const StorySystem = `Você é um Product Owner sênior especializado em metodologias ágeis e documentação técnica.
Você escreve histórias técnicas objetivas, em Markdown, sem emojis e sem inventar informações.`

const storyRules = `<critical_rules>
1. NUNCA adicione emojis em nenhuma parte da história.
2. NUNCA invente informações. Use apenas os dados fornecidos; não crie APIs, regras ou tecnologias não mencionadas.
3. Seja objetiva e direta. Tom técnico, sem floreios.
4. Formato técnico para desenvolvedores: "Implementar X", "Integrar Y". Não use "Como usuário, eu quero...".
</critical_rules>`

const storyFormatting = `<formatting_rules>
- Use "##" apenas para o título e "###" para cada seção.
- Listas com "-" ou numeradas; blocos de código com crases triplas.
- Linha em branco entre seções.
- Critérios de aceitação: mínimo 3, cobrindo caso de sucesso, caso de erro e validação técnica.
  Use Gherkin quando apropriado (CA1 - Nome / Dado que / Quando / Então).
- Cenários de teste: mínimo 3 (sucesso, erro/exceção, edge case), numerados.
</formatting_rules>

Retorne APENAS o Markdown da história, sem texto antes ou depois.`

// Story renders the generation prompt for a validated form input.
func Story(in model.StoryInput) string {
	var b strings.Builder

	b.WriteString("<task>\nGere uma história de usuário COMPLETA, TÉCNICA e PROFISSIONAL a partir dos dados abaixo.\n</task>\n\n")
	b.WriteString(storyRules)
	b.WriteString("\n\n<input_data>\n")
	b.WriteString(fmt.Sprintf("<titulo>%s</titulo>\n\n", in.Title))
	writeTagged(&b, "regras_negocio", bulletList(in.BusinessRules))
	writeTagged(&b, "apis_servicos", bulletList(in.APIs))
	writeTagged(&b, "objetivos", objectivesList(in.Objectives))
	b.WriteString(fmt.Sprintf("<complexidade>%d</complexidade>\n\n", in.Complexity))
	writeTagged(&b, "criterios_aceitacao", bulletList(in.AcceptanceCriteria))
	if !in.APISpec.IsZero() {
		writeTagged(&b, "especificacao_api", apiSpecList(in.APISpec))
	}
	b.WriteString("</input_data>\n\n")

	b.WriteString("<mandatory_structure>\nA história deve conter exatamente estas seções, nesta ordem:\n\n")
	b.WriteString("## [Título da tarefa]\n")
	for _, label := range section.CanonicalOrder {
		b.WriteString(fmt.Sprintf("### %s\n", label))
	}
	b.WriteString(fmt.Sprintf("\nNa seção \"%s\" escreva: Pontos: %d\n", section.Complexity, in.Complexity))
	b.WriteString("Inclua TODAS as regras, APIs, objetivos e critérios fornecidos, sem omitir nenhum.\n")
	if !in.APISpec.IsZero() {
		b.WriteString(fmt.Sprintf("Detalhe o contrato da API na seção \"%s\" usando a especificação fornecida.\n", section.APIs))
	}
	b.WriteString("</mandatory_structure>\n\n")

	b.WriteString(storyFormatting)
	return b.String()
}

// Regeneration asks for a single section of an existing story. The reply is
// expected to start with the section heading.
func Regeneration(label string, doc model.Document) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("<task>\nRegenere APENAS a seção \"%s\" desta história.\n", label))
	b.WriteString("Mantenha todo o contexto e as informações da história original.\n</task>\n\n")
	b.WriteString(storyRules)
	b.WriteString("\n\n<original_story>\n")
	b.WriteString(strings.TrimSpace(doc.Body))
	b.WriteString("\n</original_story>\n\n")

	b.WriteString("<form_data>\n")
	b.WriteString(fmt.Sprintf("Título: %s\n", doc.Title))
	b.WriteString("Regras de Negócio:\n" + bulletList(doc.BusinessRules) + "\n")
	b.WriteString("APIs/Serviços:\n" + bulletList(doc.APIs) + "\n")
	b.WriteString("Objetivos:\n" + objectivesList(doc.Objectives) + "\n")
	b.WriteString(fmt.Sprintf("Complexidade: %d\n", doc.Complexity))
	b.WriteString("Critérios de Aceitação:\n" + bulletList(doc.AcceptanceCriteria) + "\n")
	b.WriteString("</form_data>\n\n")

	b.WriteString("<instructions>\n")
	b.WriteString("1. Analise o contexto da história completa.\n")
	b.WriteString("2. Mantenha consistência e o mesmo nível de detalhe técnico do restante da história.\n")
	b.WriteString(fmt.Sprintf("3. Retorne APENAS a seção em Markdown, começando com \"### %s\".\n", label))
	b.WriteString("</instructions>")
	return b.String()
}

func writeTagged(b *strings.Builder, tag, body string) {
	b.WriteString(fmt.Sprintf("<%s>\n%s\n</%s>\n\n", tag, body, tag))
}

func bulletList(items []string) string {
	var lines []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			lines = append(lines, "- "+s)
		}
	}
	if len(lines) == 0 {
		return notSpecified
	}
	return strings.Join(lines, "\n")
}

func objectivesList(o model.Objectives) string {
	entries := o.Entries()
	if len(entries) == 0 {
		return notSpecified
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("- %s: %s", e.Label, e.Value)
	}
	return strings.Join(lines, "\n")
}

func apiSpecList(spec *model.APISpec) string {
	fields := []struct{ label, value string }{
		{"Endpoint", spec.Endpoint},
		{"Parâmetros", spec.Parameters},
		{"Formato de resposta", spec.ResponseFormat},
		{"Tratamento de erros", spec.ErrorHandling},
		{"Documentação", spec.Documentation},
	}
	var lines []string
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", f.label, v))
		}
	}
	return strings.Join(lines, "\n")
}
