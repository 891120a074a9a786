package testsupport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"leadradar/internal/services/llm"
)

// CallKind names the pipeline step a completion request belongs to.
type CallKind string

const (
	CallRelevance  CallKind = "relevance"
	CallAnalysis   CallKind = "analysis"
	CallDraft      CallKind = "draft"
	CallRegenerate CallKind = "regenerate"
	CallHealth     CallKind = "health"
)

// Default fake answers: every signal is real, hot, and gets a short draft.
const (
	DefaultRelevance  = `{"isReal": true, "confidence": 0.92, "reason": "first-person statement"}`
	DefaultAnalysis   = `{"intent": "Quiere vender la empresa", "emotion": "Decidido", "temperature": "Alto"}`
	DefaultDraft      = "Hola, he leído su publicación y me gustaría conocer cómo está viviendo este momento."
	DefaultRegenerate = "Buenos días, vi su mensaje y quería preguntarle directamente por sus planes."
)

// ClassifyRequest maps a request onto the pipeline step that produced it.
func ClassifyRequest(req llm.Request) CallKind {
	switch {
	case strings.Contains(req.User, `{"ok":true}`):
		return CallHealth
	case strings.Contains(req.User, `"isReal"`):
		return CallRelevance
	case strings.Contains(req.User, "PURCHASE INTENT"):
		return CallAnalysis
	case strings.Contains(req.System, "COMPLETELY NEW"):
		return CallRegenerate
	default:
		return CallDraft
	}
}

// FakeCompleter answers completion requests from canned responses per step.
type FakeCompleter struct {
	mu        sync.Mutex
	responses map[CallKind]string
	errs      map[CallKind]error
	calls     []llm.Request
	// Hook runs before each answer. A non-nil error is returned to the caller.
	Hook func(ctx context.Context, kind CallKind) error
}

// NewFakeCompleter returns a completer that accepts everything.
func NewFakeCompleter() *FakeCompleter {
	return &FakeCompleter{
		responses: map[CallKind]string{
			CallRelevance:  DefaultRelevance,
			CallAnalysis:   DefaultAnalysis,
			CallDraft:      DefaultDraft,
			CallRegenerate: DefaultRegenerate,
			CallHealth:     `{"ok":true}`,
		},
		errs: map[CallKind]error{},
	}
}

// Respond sets the canned answer for kind.
func (f *FakeCompleter) Respond(kind CallKind, content string) *FakeCompleter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[kind] = content
	return f
}

// Fail makes every call of kind return err.
func (f *FakeCompleter) Fail(kind CallKind, err error) *FakeCompleter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[kind] = err
	return f
}

// Complete implements the analyst's completer contract.
func (f *FakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	kind := ClassifyRequest(req)
	f.mu.Lock()
	f.calls = append(f.calls, req)
	hook := f.Hook
	content := f.responses[kind]
	err := f.errs[kind]
	f.mu.Unlock()

	if hook != nil {
		if hookErr := hook(ctx, kind); hookErr != nil {
			return "", hookErr
		}
	}
	if err != nil {
		return "", err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return strings.TrimSpace(content), nil
}

// Calls returns the recorded requests of kind, or all when kind is empty.
func (f *FakeCompleter) Calls(kind CallKind) []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Request, 0, len(f.calls))
	for _, req := range f.calls {
		if kind == "" || ClassifyRequest(req) == kind {
			out = append(out, req)
		}
	}
	return out
}

// NewLLMServer serves an OpenAI-compatible chat-completions endpoint backed by
// completer. Upstream errors become HTTP 500 responses.
func NewLLMServer(t testing.TB, completer *FakeCompleter) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := llm.Request{Temperature: payload.Temperature, MaxTokens: payload.MaxTokens}
		for _, msg := range payload.Messages {
			switch msg.Role {
			case "system":
				req.System = msg.Content
			case "user":
				req.User = msg.Content
			}
		}
		content, err := completer.Complete(r.Context(), req)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": err.Error()}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}
