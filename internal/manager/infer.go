package manager

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"engined/internal/engine"
	"engined/pkg/types"
)

// Infer centralizes inference behavior. It ensures the model instance exists,
// runs generation through the configured adapter, and streams NDJSON token
// lines to the provided writer.
func (m *Manager) Infer(ctx context.Context, req types.InferRequest, w io.Writer, flusher func()) error {
	modelID := req.Model
	if modelID == "" {
		modelID = m.defaultModel
		if modelID == "" {
			return modelNotFoundError{id: "(unspecified)"}
		}
	}
	if err := m.EnsureInstance(ctx, modelID); err != nil {
		return err
	}
	release, err := m.beginGeneration(ctx, modelID)
	if err != nil {
		return err
	}
	defer release()

	// The generation gets its own engine handle so a concurrent unload of
	// the instance cannot tear the engine down under it. Clone under the
	// manager lock so unload cannot release the instance handle in between.
	m.mu.RLock()
	inst := m.instances[modelID]
	var sess InferSession
	var eref *engine.Ref
	if inst != nil && inst.session != nil && inst.engineRef != nil {
		sess = inst.session
		eref = inst.engineRef.Clone()
	}
	m.mu.RUnlock()
	if sess == nil {
		return ErrModelNotFound(modelID)
	}
	defer eref.Close()
	var b strings.Builder
	onTok := func(tok string) error {
		if _, e := w.Write(tokenLineJSON(tok)); e != nil {
			return e
		}
		b.WriteString(tok)
		if flusher != nil {
			flusher()
		}
		return nil
	}
	final, err := sess.Generate(ctx, req.Prompt, inferParamsFromRequest(req), onTok)
	if err != nil {
		m.setLastErr(err.Error())
		return err
	}
	content := final.Content
	if content == "" {
		content = b.String()
	}
	end := map[string]any{
		"done":          true,
		"content":       content,
		"finish_reason": final.FinishReason,
		"usage":         final.Usage,
	}
	jb, _ := json.Marshal(end)
	if _, err := w.Write(append(jb, '\n')); err != nil {
		return err
	}
	if flusher != nil {
		flusher()
	}
	return nil
}

// tokenLineJSON formats a token NDJSON line using json.Marshal for correctness.
func tokenLineJSON(tok string) []byte {
	type tokenMsg struct {
		Token string `json:"token"`
	}
	b, _ := json.Marshal(tokenMsg{Token: tok})
	return append(b, '\n')
}

func inferParamsFromRequest(req types.InferRequest) InferParams {
	return InferParams{
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
		TopK:        req.TopK,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
		Seed:        req.Seed,
	}
}
