package manager

import "context"

// InferenceAdapter abstracts the model runtime used by the Manager.
// Concrete implementations (e.g., llama.cpp) should satisfy this interface.
// Implementations may assume the native engine is initialized for the whole
// lifetime of every session they return; the Manager guarantees it by
// holding an engine handle per instance.
type InferenceAdapter interface {
	// Start loads the model at modelPath and returns a reusable session.
	Start(modelPath string, params InferParams) (InferSession, error)
}

// InferSession is a loaded model serving generations until closed.
type InferSession interface {
	// Generate streams tokens for the given prompt. The onToken callback is
	// invoked for each token. Implementations must return when the context
	// is canceled.
	Generate(ctx context.Context, prompt string, params InferParams, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the session.
	Close() error
}

// InferParams captures generation parameters passed to the adapter.
type InferParams struct {
	Temperature float32
	TopP        float32
	TopK        int
	MaxTokens   int
	Stop        []string
	Seed        int
}

// FinalResult summarizes the generation after streaming.
type FinalResult struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage contains token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
