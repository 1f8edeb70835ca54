// Package mock provides test doubles for the ai interfaces.
//
// The mocks run without external model services and behave
// deterministically:
//
//   - MockEmbedder: returns unit vectors derived from a hash of the text
//   - MockChatModel: echoes a canned completion derived from the prompt
//   - MockProvider: aggregates both
//
// Behavior can be injected via the exported function fields, and every mock
// counts its calls:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("boom")
//	}
//	...
//	require.Equal(t, 2, embedder.CallCount())
package mock
