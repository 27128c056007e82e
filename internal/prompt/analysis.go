package prompt

import (
	"fmt"
	"strings"
)

// MaxSuggestions caps how many suggestions the model is asked for.
const MaxSuggestions = 5

// Invest asks for an INVEST assessment as strict JSON matching schema.
func Invest(body, schema string) string {
	var b strings.Builder

	b.WriteString("<task>\nAvalie esta história de usuário segundo os critérios INVEST.\n")
	b.WriteString("Seja objetivo e técnico. NÃO invente informações: use apenas o que está na história.\n</task>\n\n")
	b.WriteString("<story>\n" + strings.TrimSpace(body) + "\n</story>\n\n")
	b.WriteString(`<criteria>
Avalie cada critério com uma nota inteira de 0 a 100:
- independent: pode ser desenvolvida sem depender de outras histórias?
- negotiable: tem flexibilidade de implementação ou é rígida demais?
- valuable: entrega valor claro de negócio ou técnico?
- estimable: é possível estimar o esforço com precisão?
- small: cabe em uma sprint (1-2 semanas)?
- testable: possui critérios de aceitação claros e testáveis?
</criteria>

`)
	b.WriteString("<output_format>\nRetorne APENAS um objeto JSON válido que siga este JSON Schema:\n")
	b.WriteString(schema)
	b.WriteString("\n</output_format>\n\n")
	b.WriteString("<important>\n- Justificativas específicas.\n- Sugestões acionáveis.\n- Nenhum texto antes ou depois do JSON.\n</important>")
	return b.String()
}

// Suggestions asks for at most MaxSuggestions improvements as a JSON array whose items match schema.
func Suggestions(body, schema string) string {
	var b strings.Builder

	b.WriteString("<task>\nAnalise esta história técnica e sugira melhorias específicas e práticas.\n")
	b.WriteString("NÃO invente: use apenas o que está na história.\n</task>\n\n")
	b.WriteString("<story>\n" + strings.TrimSpace(body) + "\n</story>\n\n")
	b.WriteString(`<analysis_points>
1. ambiguidade: termos vagos, falta de especificidade técnica, requisitos pouco claros.
2. tamanho: história grande demais (complexidade > 13) e como dividi-la.
3. criterio: cenários não cobertos, casos de erro não tratados, validações ausentes.
4. clareza: seções que precisam de mais detalhe ou exemplos concretos.
</analysis_points>

`)
	b.WriteString("<output_format>\nRetorne APENAS um array JSON cujos itens sigam este JSON Schema:\n")
	b.WriteString(schema)
	b.WriteString("\n</output_format>\n\n")
	b.WriteString(fmt.Sprintf("<important>\n- Seja específico: \"A seção X está vaga\", não \"a história pode melhorar\".\n- No máximo %d sugestões, as mais importantes primeiro.\n- Nenhum texto antes ou depois do JSON.\n</important>", MaxSuggestions))
	return b.String()
}
