package cognitive_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leadradar/internal/cognitive"
	"leadradar/internal/signals"
	"leadradar/internal/testsupport"
)

var fixedNow = time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

func newAnalyst(fake *testsupport.FakeCompleter, mutate ...func(*cognitive.Options)) *cognitive.Analyst {
	opts := cognitive.Options{Now: func() time.Time { return fixedNow }}
	for _, fn := range mutate {
		fn(&opts)
	}
	return cognitive.NewAnalyst(fake, opts)
}

func sampleRaw() signals.RawSignal {
	return signals.RawSignal{
		Source:      signals.SourceLinkedIn,
		Name:        "Carlos Mendoza",
		RoleCompany: "CEO & Fundador, Industrias Mendoza S.A.",
		Location:    "Barcelona",
		Trigger:     "Relevo Generacional",
		Excerpt:     "empiezo a pensar en dar un paso al lado",
		FullSource:  "Después de 30 años al pie del cañón, empiezo a pensar en dar un paso al lado.",
		SourceURL:   "https://linkedin.com/posts/carlosmendoza-30aniversario",
		ScrapedAt:   fixedNow.Add(-time.Minute),
	}
}

func TestRelevanceThreshold(t *testing.T) {
	tests := []struct {
		name     string
		response string
		minConf  float64
		accepted bool
	}{
		{"real and confident", `{"isReal": true, "confidence": 0.8, "reason": "x"}`, 0, true},
		{"exactly at threshold", `{"isReal": true, "confidence": 0.5}`, 0, true},
		{"below threshold", `{"isReal": true, "confidence": 0.3}`, 0, false},
		{"noise", `{"isReal": false, "confidence": 0.99}`, 0, false},
		{"missing confidence", `{"isReal": true}`, 0, false},
		{"stricter configured threshold", `{"isReal": true, "confidence": 0.92}`, 0.95, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testsupport.NewFakeCompleter().Respond(testsupport.CallRelevance, tt.response)
			analyst := newAnalyst(fake, func(o *cognitive.Options) { o.MinConfidence = tt.minConf })
			verdict := analyst.Relevance(context.Background(), sampleRaw())
			if verdict.Accepted != tt.accepted {
				t.Fatalf("Accepted = %v, want %v (verdict %+v)", verdict.Accepted, tt.accepted, verdict)
			}
			if verdict.Fallback {
				t.Fatal("parsed verdict must not be marked as fallback")
			}
		})
	}
}

func TestRelevanceFailurePolicy(t *testing.T) {
	failing := func() *testsupport.FakeCompleter {
		return testsupport.NewFakeCompleter().Fail(testsupport.CallRelevance, errors.New("provider down"))
	}

	open := newAnalyst(failing()).Relevance(context.Background(), sampleRaw())
	if !open.Accepted || !open.Fallback {
		t.Fatalf("expected fail-open keep, got %+v", open)
	}

	closed := newAnalyst(failing(), func(o *cognitive.Options) { o.RejectOnFailure = true }).
		Relevance(context.Background(), sampleRaw())
	if closed.Accepted || !closed.Fallback {
		t.Fatalf("expected fail-closed drop, got %+v", closed)
	}

	garbage := testsupport.NewFakeCompleter().Respond(testsupport.CallRelevance, "I think it is real")
	unparsed := newAnalyst(garbage).Relevance(context.Background(), sampleRaw())
	if !unparsed.Accepted || !unparsed.Fallback {
		t.Fatalf("expected unparseable answer to follow the fail-open policy, got %+v", unparsed)
	}
}

func TestRelevanceUsesConservativeSampling(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	newAnalyst(fake).Relevance(context.Background(), sampleRaw())
	calls := fake.Calls(testsupport.CallRelevance)
	if len(calls) != 1 {
		t.Fatalf("expected one relevance call, got %d", len(calls))
	}
	if calls[0].Temperature != 0.3 || calls[0].MaxTokens != 200 || calls[0].System != "" {
		t.Fatalf("unexpected relevance request: %+v", calls[0])
	}
	if !strings.Contains(calls[0].User, "Carlos Mendoza") || !strings.Contains(calls[0].User, "Relevo Generacional") {
		t.Fatalf("prompt missing prospect data: %s", calls[0].User)
	}
}

func TestAnalyzeParsesSpanishTemperature(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	got := newAnalyst(fake).Analyze(context.Background(), sampleRaw())
	if got.Temperature != signals.TemperatureHigh {
		t.Fatalf("Temperature = %q, want High", got.Temperature)
	}
	if got.Analysis.Intent != "Quiere vender la empresa" || got.Analysis.Emotion != "Decidido" || got.Fallback {
		t.Fatalf("unexpected assessment: %+v", got)
	}
	calls := fake.Calls(testsupport.CallAnalysis)
	if len(calls) != 1 || calls[0].Temperature != 0.4 || calls[0].MaxTokens != 300 {
		t.Fatalf("unexpected analysis request: %+v", calls)
	}
	if !strings.Contains(calls[0].User, "in Spanish") || !strings.Contains(calls[0].User, "Barcelona") {
		t.Fatalf("analysis prompt missing language or location: %s", calls[0].User)
	}
}

func TestAnalyzeFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		fake    *testsupport.FakeCompleter
		intent  string
		emotion string
		temp    signals.Temperature
	}{
		{
			name:    "call error",
			fake:    testsupport.NewFakeCompleter().Fail(testsupport.CallAnalysis, errors.New("boom")),
			intent:  cognitive.IntentError,
			emotion: cognitive.EmotionUnknown,
			temp:    signals.TemperatureMedium,
		},
		{
			name:    "no json",
			fake:    testsupport.NewFakeCompleter().Respond(testsupport.CallAnalysis, "sorry, cannot help"),
			intent:  cognitive.IntentPending,
			emotion: cognitive.EmotionUnknown,
			temp:    signals.TemperatureMedium,
		},
		{
			name:    "missing fields",
			fake:    testsupport.NewFakeCompleter().Respond(testsupport.CallAnalysis, `{"temperature": "Bajo"}`),
			intent:  cognitive.IntentMissing,
			emotion: cognitive.EmotionUnknown,
			temp:    signals.TemperatureLow,
		},
		{
			name:    "unknown temperature",
			fake:    testsupport.NewFakeCompleter().Respond(testsupport.CallAnalysis, `{"intent": "a", "emotion": "b", "temperature": "scorching"}`),
			intent:  "a",
			emotion: "b",
			temp:    signals.TemperatureMedium,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newAnalyst(tt.fake).Analyze(context.Background(), sampleRaw())
			if got.Analysis.Intent != tt.intent || got.Analysis.Emotion != tt.emotion || got.Temperature != tt.temp {
				t.Fatalf("unexpected assessment: %+v", got)
			}
		})
	}
}

func TestDraftFallbacks(t *testing.T) {
	analysis := signals.Analysis{Intent: "sell", Emotion: "calm"}

	ok := testsupport.NewFakeCompleter()
	if got := newAnalyst(ok).Draft(context.Background(), sampleRaw(), analysis); got != testsupport.DefaultDraft {
		t.Fatalf("unexpected draft %q", got)
	}
	calls := ok.Calls(testsupport.CallDraft)
	if len(calls) != 1 || calls[0].Temperature != 0.7 || calls[0].MaxTokens != 400 || calls[0].System == "" {
		t.Fatalf("unexpected draft request: %+v", calls)
	}
	if !strings.Contains(calls[0].User, "sell") || !strings.Contains(calls[0].User, "calm") {
		t.Fatalf("draft prompt missing analysis: %s", calls[0].User)
	}

	empty := testsupport.NewFakeCompleter().Respond(testsupport.CallDraft, "   ")
	if got := newAnalyst(empty).Draft(context.Background(), sampleRaw(), analysis); got != cognitive.DraftRetry {
		t.Fatalf("empty answer: got %q", got)
	}

	failing := testsupport.NewFakeCompleter().Fail(testsupport.CallDraft, errors.New("401"))
	if got := newAnalyst(failing).Draft(context.Background(), sampleRaw(), analysis); got != cognitive.DraftKeyProblem {
		t.Fatalf("failed call: got %q", got)
	}
}

func TestProcessAssemblesSignal(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	raw := sampleRaw()
	sig, accepted, err := newAnalyst(fake).Process(context.Background(), raw)
	if err != nil || !accepted || sig == nil {
		t.Fatalf("Process = (%v, %v, %v)", sig, accepted, err)
	}
	if !strings.HasPrefix(sig.ID, "sig_") {
		t.Fatalf("unexpected id %q", sig.ID)
	}
	if sig.Source != raw.Source || sig.Name != raw.Name || sig.SourceURL != raw.SourceURL || sig.Excerpt != raw.Excerpt {
		t.Fatalf("raw fields not copied: %+v", sig)
	}
	if sig.Status != signals.StatusNew || !sig.CreatedAt.Equal(fixedNow) || sig.Date != "just now" {
		t.Fatalf("unexpected lifecycle fields: status=%q created=%v date=%q", sig.Status, sig.CreatedAt, sig.Date)
	}
	if sig.Temperature != signals.TemperatureHigh || sig.DraftMessage != testsupport.DefaultDraft {
		t.Fatalf("unexpected analysis output: %+v", sig)
	}
	if sig.ArchivedAt != nil {
		t.Fatal("new signal must not be archived")
	}

	order := fake.Calls("")
	kinds := make([]testsupport.CallKind, 0, len(order))
	for _, req := range order {
		kinds = append(kinds, testsupport.ClassifyRequest(req))
	}
	want := []testsupport.CallKind{testsupport.CallRelevance, testsupport.CallAnalysis, testsupport.CallDraft}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected call sequence %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestProcessRejectedSkipsLaterSteps(t *testing.T) {
	fake := testsupport.NewFakeCompleter().Respond(testsupport.CallRelevance, `{"isReal": false, "confidence": 0.9}`)
	sig, accepted, err := newAnalyst(fake).Process(context.Background(), sampleRaw())
	if err != nil || accepted || sig != nil {
		t.Fatalf("Process = (%v, %v, %v), want rejection", sig, accepted, err)
	}
	if n := len(fake.Calls("")); n != 1 {
		t.Fatalf("expected only the relevance call, got %d", n)
	}
}

func TestProcessStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := testsupport.NewFakeCompleter()
	fake.Hook = func(_ context.Context, kind testsupport.CallKind) error {
		if kind == testsupport.CallAnalysis {
			cancel()
		}
		return nil
	}
	sig, accepted, err := newAnalyst(fake).Process(ctx, sampleRaw())
	if !errors.Is(err, context.Canceled) || sig != nil || accepted {
		t.Fatalf("Process = (%v, %v, %v), want cancellation", sig, accepted, err)
	}
	if n := len(fake.Calls(testsupport.CallDraft)); n != 0 {
		t.Fatalf("draft must not run after cancellation, got %d calls", n)
	}
}

func TestPerCallTimeoutFallsBackWithoutCancellingParent(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	fake.Hook = func(ctx context.Context, kind testsupport.CallKind) error {
		if kind != testsupport.CallAnalysis {
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	}
	analyst := newAnalyst(fake, func(o *cognitive.Options) { o.Timeout = 20 * time.Millisecond })
	sig, accepted, err := analyst.Process(context.Background(), sampleRaw())
	if err != nil || !accepted {
		t.Fatalf("Process = (%v, %v, %v)", sig, accepted, err)
	}
	if sig.AIAnalysis.Intent != cognitive.IntentError || sig.Temperature != signals.TemperatureMedium {
		t.Fatalf("expected timed-out analysis to fall back, got %+v", sig.AIAnalysis)
	}
	if sig.DraftMessage != testsupport.DefaultDraft {
		t.Fatalf("draft should still run after an analysis timeout, got %q", sig.DraftMessage)
	}
}

func storedSignal() signals.Signal {
	created := fixedNow.Add(-48 * time.Hour)
	return signals.Signal{
		ID:           "sig_1_abcdef123",
		Source:       signals.SourceBORME,
		Name:         "Miguel Ángel Serrano",
		RoleCompany:  "Administrador Único, Serrano Logística S.L.",
		Location:     "Zaragoza",
		Trigger:      "Disolución",
		Temperature:  signals.TemperatureLow,
		FullSource:   "DISOLUCIÓN. Acuerdo de disolución voluntaria.",
		AIAnalysis:   signals.Analysis{Intent: "old intent", Emotion: "old emotion"},
		DraftMessage: "Estimado Miguel Ángel, mensaje original.",
		Date:         "2 days ago",
		Status:       signals.StatusReviewed,
		CreatedAt:    created,
	}
}

func TestRegenerateAvoidsPreviousDraft(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	sig := storedSignal()
	analyst := newAnalyst(fake)

	if got := analyst.Regenerate(context.Background(), sig, ""); got != testsupport.DefaultRegenerate {
		t.Fatalf("unexpected regenerated draft %q", got)
	}
	if got := analyst.Regenerate(context.Background(), sig, "más directo, centrado en la valoración"); got != testsupport.DefaultRegenerate {
		t.Fatalf("unexpected regenerated draft %q", got)
	}
	calls := fake.Calls(testsupport.CallRegenerate)
	if len(calls) != 2 {
		t.Fatalf("expected two regenerate calls, got %d", len(calls))
	}
	for _, req := range calls {
		if req.Temperature != 0.9 || req.MaxTokens != 400 {
			t.Fatalf("unexpected sampling: %+v", req)
		}
		if !strings.Contains(req.User, "mensaje original") {
			t.Fatalf("previous draft missing from prompt: %s", req.User)
		}
	}
	if !strings.Contains(calls[0].User, "completely different angle") {
		t.Fatalf("expected style flip instruction without an angle: %s", calls[0].User)
	}
	if !strings.Contains(calls[1].User, "REQUESTED ANGLE: más directo") {
		t.Fatalf("expected requested angle in prompt: %s", calls[1].User)
	}
	if sig.DraftMessage != "Estimado Miguel Ángel, mensaje original." {
		t.Fatal("Regenerate must not mutate its input")
	}
}

func TestRegenerateFallbacks(t *testing.T) {
	empty := testsupport.NewFakeCompleter().Respond(testsupport.CallRegenerate, "")
	if got := newAnalyst(empty).Regenerate(context.Background(), storedSignal(), ""); got != cognitive.RegenerateRetry {
		t.Fatalf("empty answer: got %q", got)
	}
	failing := testsupport.NewFakeCompleter().Fail(testsupport.CallRegenerate, errors.New("unauthorized"))
	if got := newAnalyst(failing).Regenerate(context.Background(), storedSignal(), ""); got != cognitive.RegenerateKeyIssue {
		t.Fatalf("failed call: got %q", got)
	}
}

func TestReanalyzeReturnsReplacementFields(t *testing.T) {
	fake := testsupport.NewFakeCompleter()
	got := newAnalyst(fake).Reanalyze(context.Background(), storedSignal())
	if got.Temperature != signals.TemperatureHigh || got.Analysis.Intent != "Quiere vender la empresa" {
		t.Fatalf("unexpected reanalysis: %+v", got)
	}
	if got.DraftMessage != testsupport.DefaultDraft {
		t.Fatalf("unexpected draft %q", got.DraftMessage)
	}
	if n := len(fake.Calls(testsupport.CallRelevance)); n != 0 {
		t.Fatalf("reanalysis must skip relevance, got %d calls", n)
	}
	analysis := fake.Calls(testsupport.CallAnalysis)
	if len(analysis) != 1 || !strings.Contains(analysis[0].User, "Zaragoza") {
		t.Fatalf("analysis prompt not built from stored record: %+v", analysis)
	}
}

func TestNilCompleterFallsBack(t *testing.T) {
	analyst := cognitive.NewAnalyst(nil, cognitive.Options{})
	if got := analyst.Draft(context.Background(), sampleRaw(), signals.Analysis{}); got != cognitive.DraftKeyProblem {
		t.Fatalf("expected key problem text, got %q", got)
	}
}
