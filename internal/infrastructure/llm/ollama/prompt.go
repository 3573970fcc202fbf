package ollama

import (
	"fmt"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// buildExtractionPrompt renders the single-shot extraction instruction. The
// context block arrives already ranked and tagged; the prompt never reorders
// it.
func buildExtractionPrompt(query string, queryType domain.QueryType, contextBlock string) string {
	intro := "You extract technical specifications from service manual excerpts."
	if queryType == domain.QueryTypeGeneral {
		intro = "You answer questions about service manual excerpts by extracting any concrete specifications they contain."
	}

	return fmt.Sprintf(`%s

Return ONLY a JSON object of this exact shape, no markdown, no prose:
{"specs": [{"component": string, "value": string, "unit": string, "page": number, "raw_text": string, "part_number": string}]}

Rules:
- component and value are required; use "" for unknown unit or part_number.
- value is the numeric or textual specification exactly as stated.
- page is the page number from the chunk header the fact came from.
- raw_text is the sentence the fact came from, verbatim.
- Only report facts present in the context. If none match, return {"specs": []}.

Question:
%s

Context:
%s
`, intro, query, contextBlock)
}
