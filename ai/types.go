package ai

// GenerateRequest describes one completion request. Zero values for
// Temperature and MaxTokens defer to the provider's configured defaults.
type GenerateRequest struct {
	// System is the system instruction, may be empty.
	System string

	// Prompt is the full user prompt, including any retrieved context and
	// folded-in conversation history.
	Prompt string

	// Temperature overrides the provider default when non-zero.
	Temperature float64

	// MaxTokens caps the completion length when non-zero.
	MaxTokens int
}

// GenerateResult is the outcome of one completion request.
type GenerateResult struct {
	// Text is the generated completion.
	Text string

	// Model is the model identifier that produced the completion.
	Model string

	// TokensUsed is the total token count reported by the provider,
	// zero when the provider reports no usage.
	TokensUsed int
}
