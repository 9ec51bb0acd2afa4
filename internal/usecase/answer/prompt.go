package answer

import (
	"strings"

	"github.com/kailas-cloud/guidechat/internal/index"
)

// Sentinel is the distinguished reply the model is instructed to emit
// when the supplied context does not contain the answer. It is matched
// exactly against the trimmed model output, never by substring, so a
// legitimate answer mentioning the token is not misclassified.
const Sentinel = "NOT_FOUND"

const promptHeader = `You are a polite and helpful customer support agent for a telecommunications company.

Context from guides:
`

const promptInstructions = `
Instructions:
1. Be friendly and concise.
2. If the customer asks for a price or a code, give the exact details from the context.
3. If the answer is NOT in the context, reply with exactly "NOT_FOUND" and nothing else.
`

// groundedPrompt builds the retrieval-augmented prompt from the query
// and the retrieved guide chunks.
func groundedPrompt(query string, hits []index.Hit) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	for i, hit := range hits {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(hit.Chunk.Text)
	}
	sb.WriteString("\n\nCustomer question: ")
	sb.WriteString(query)
	sb.WriteString("\n")
	sb.WriteString(promptInstructions)
	return sb.String()
}

// isSentinel reports whether the model output signals "not in context".
// Trailing punctuation and quotes are stripped before the exact match
// because models routinely add them around a bare token.
func isSentinel(text string) bool {
	t := strings.TrimSpace(text)
	t = strings.Trim(t, "\"'.` ")
	return t == Sentinel
}
