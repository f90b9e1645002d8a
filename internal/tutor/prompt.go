package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
)

const systemPrompt = `You are a concise language tutor. A learner was shown one field of a vocabulary item and had to recall the others: spelling, syllable division, IPA transcription and translation. Explain the mistakes they made. Be specific about sounds and letters, never repeat correct answers back at length.`

func buildUserMessage(item knowledge.Item, ex session.Exercise) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Language: %s\n", item.Language)
	fmt.Fprintf(&b, "Kind: %s\n", item.Kind)
	fmt.Fprintf(&b, "Shown: %s = %q\n", ex.ProvidedField.Label(), item.Value(ex.ProvidedField))

	b.WriteString("\nAnswers:\n")
	for i, f := range ex.FilledFields {
		mark := "correct"
		if !ex.Correctness[i] {
			mark = "incorrect"
		}
		fmt.Fprintf(&b, "- %s: learner wrote %q, expected %q (%s)\n",
			f.Label(), ex.FilledValues[i], item.Value(f), mark)
	}
	return b.String()
}
