package app

import (
	"fmt"
	"strings"

	"legis_rag/internal/retriever"
)

// NoContext replaces the context block when retrieval found nothing.
const NoContext = "FĂRĂ CONTEXT."

const promptTemplate = "Ești expert juridic. Răspunde strict pe baza contextului: %s\n\nÎntrebare: %s"

// BuildPrompt renders matches as source-tagged blocks and places them with query into the
// answer template. Passages are included whole.
func BuildPrompt(query string, matches []retriever.Match) string {
	context := NoContext
	if len(matches) > 0 {
		blocks := make([]string, 0, len(matches))
		for _, m := range matches {
			blocks = append(blocks, "[SURSA: "+m.Doc+"]\n"+m.Text)
		}
		context = strings.Join(blocks, "\n\n")
	}

	return fmt.Sprintf(promptTemplate, context, query)
}
