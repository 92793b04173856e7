package valueobject

// Fixed prompt fragments. The context template is used whenever repositories
// were requested, even if retrieval produced no chunks.
const (
	promptPreamble      = "You are a helpful assistant. "
	contextPromptPrefix = promptPreamble + "You are given the following context: "
	contextPromptQuery  = ". You are also given the following query: "
	contextPromptSuffix = ". You need to answer the query based on the context."
	queryPromptPrefix   = promptPreamble + "You are given the following query: "
	queryPromptSuffix   = ". Please provide an answer to the query."
)

// Prompt is the final text sent to the completions endpoint.
type Prompt struct {
	text        string
	withContext bool
}

// NewContextPrompt builds the prompt used when repositories were supplied.
func NewContextPrompt(context, query string) Prompt {
	return Prompt{
		text:        contextPromptPrefix + context + contextPromptQuery + query + contextPromptSuffix,
		withContext: true,
	}
}

// NewQueryPrompt builds the prompt used when no repositories were supplied.
func NewQueryPrompt(query string) Prompt {
	return Prompt{text: queryPromptPrefix + query + queryPromptSuffix}
}

// String returns the prompt text.
func (p Prompt) String() string {
	return p.text
}

// HasContext reports whether the prompt was built from the context template.
func (p Prompt) HasContext() bool {
	return p.withContext
}
