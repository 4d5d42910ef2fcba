package ai

import "strings"

// defaultRubric is the fixed scoring rubric. Scores of 9.0-10.0 are reserved
// for exact role-title matches; anything whose role history is merely
// correlated with the target title is capped at 6.5.
const defaultRubric = `Regras de pontuação (matchScore, escala 0.0 a 10.0):
- Atribua 9.0 a 10.0 SOMENTE quando o histórico do candidato contém o cargo exato da vaga (ou um sinônimo direto do mesmo cargo).
- Se o histórico do candidato NÃO contém o cargo exato ou sinônimo direto, a nota máxima permitida é 6.5, mesmo que as áreas sejam correlatas. Cargos correlatos porém diferentes NÃO contam como correspondência exata.
- Avalie os demais critérios da vaga para distribuir a nota dentro da faixa permitida.`

const promptTemplate = `Você é um recrutador técnico experiente. Analise o currículo anexado para a vaga abaixo.

Vaga: {{JOB_TITLE}}

Critérios da vaga:
{{CRITERIA}}

{{RUBRIC}}

Extraia e retorne APENAS um objeto JSON com os campos:
candidateName (string), matchScore (número 0.0-10.0), summary (string),
city (string, "Não informado" se ausente), neighborhood (string, "Não informado" se ausente),
phoneNumbers (lista de strings), pros (lista de 3 strings), cons (lista de 3 strings),
yearsExperience (string), workHistory (lista de objetos {company, role, duration}).`

// BuildPrompt renders the scoring prompt for one job. An empty rubric keeps
// the built-in one.
func BuildPrompt(jobTitle, criteria, rubric string) string {
	if strings.TrimSpace(rubric) == "" {
		rubric = defaultRubric
	}
	p := strings.ReplaceAll(promptTemplate, "{{JOB_TITLE}}", jobTitle)
	p = strings.ReplaceAll(p, "{{CRITERIA}}", criteria)
	p = strings.ReplaceAll(p, "{{RUBRIC}}", rubric)
	return p
}
