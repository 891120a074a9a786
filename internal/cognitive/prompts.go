package cognitive

import (
	"fmt"
	"strings"

	"leadradar/internal/signals"
)

// Sampling settings per call. Relevance and analysis stay conservative; the
// regenerate call runs hotter so the rewrite actually changes.
const (
	relevanceTemperature  = 0.3
	relevanceMaxTokens    = 200
	analysisTemperature   = 0.4
	analysisMaxTokens     = 300
	draftTemperature      = 0.7
	draftMaxTokens        = 400
	regenerateTemperature = 0.9
	regenerateMaxTokens   = 400
)

// subject is the prospect data every prompt is built from.
type subject struct {
	Name        string
	RoleCompany string
	Location    string
	Trigger     string
	Text        string
}

func subjectFromRaw(raw signals.RawSignal) subject {
	return subject{
		Name:        raw.Name,
		RoleCompany: raw.RoleCompany,
		Location:    raw.Location,
		Trigger:     raw.Trigger,
		Text:        raw.FullSource,
	}
}

func subjectFromSignal(sig signals.Signal) subject {
	return subject{
		Name:        sig.Name,
		RoleCompany: sig.RoleCompany,
		Location:    sig.Location,
		Trigger:     sig.Trigger,
		Text:        sig.FullSource,
	}
}

func relevancePrompt(s subject) string {
	return fmt.Sprintf(`You are a commercial-intelligence analyst who detects buy, sell and business-transition signals.

Decide whether the text below is a REAL business-transition signal (someone actually going through a dissolution, sale, retirement, generational handover, partner dispute and so on) or NOISE (someone discussing the topic in the abstract, sharing articles, or giving opinions without being involved).

TEXT: %q
NAME: %s
COMPANY: %s
DETECTED TRIGGER: %s

Respond with valid JSON only:
{"isReal": true/false, "confidence": 0.0-1.0, "reason": "short explanation"}`,
		s.Text, s.Name, s.RoleCompany, s.Trigger)
}

func analysisPrompt(s subject, language string) string {
	return fmt.Sprintf(`You are a senior commercial-intelligence analyst. Your client sells mediation, company purchase and sale, and wealth management services.

Analyze the prospect signal below and extract:
1. PURCHASE INTENT: what exactly does this person need? Mediation? Selling the company? Wealth management? Succession?
2. EMOTIONAL STATE: how do they feel? Desperate, calm, nostalgic, overwhelmed, determined?
3. TEMPERATURE: High (urgent or clear need), Medium (exploring options), Low (vague intent)

SOURCE TEXT: %q
NAME: %s
COMPANY: %s
TRIGGER: %s
LOCATION: %s

Write intent and emotion in %s. Respond with valid JSON only:
{"intent": "detected intent", "emotion": "emotional state", "temperature": "High|Medium|Low"}`,
		s.Text, s.Name, s.RoleCompany, s.Trigger, s.Location, language)
}

func draftSystemPrompt(language string) string {
	return fmt.Sprintf(`You are a LinkedIn copywriter specialised in high-value B2B first-contact messages. Your client offers mediation, company purchase and sale, and wealth management services.

STRICT RULES:
- Do NOT sell anything in the first message
- Reference the prospect's EXACT situation (what they posted or what is known about them)
- Be empathetic, human and genuine
- 4-5 sentences maximum
- Use the situation as a natural icebreaker
- The goal is to open a conversation, NOT to close a sale
- Match formality to the context (senior business owners get the formal form)
- Write the message in %s`, language)
}

func draftUserPrompt(s subject, analysis signals.Analysis) string {
	return fmt.Sprintf(`PROSPECT DATA:
- Name: %s
- Role/Company: %s
- Trigger: %s
- Location: %s
- What they said or posted: %q
- Detected intent: %s
- Emotional state: %s

Write ONLY the LinkedIn message (no quotes, no explanations, no subject line). Start directly with the greeting.`,
		s.Name, s.RoleCompany, s.Trigger, s.Location, s.Text, analysis.Intent, analysis.Emotion)
}

func regenerateSystemPrompt(language string) string {
	return fmt.Sprintf(`You are a LinkedIn copywriter. Write a COMPLETELY NEW message that is DIFFERENT from the previous one. Change the angle, the hook and the structure.

RULES:
- Do NOT sell anything
- Reference the prospect's EXACT situation
- Be empathetic, human and genuine
- 4-5 sentences maximum
- Use a new angle and hook
- Write the message in %s`, language)
}

func regenerateUserPrompt(s subject, analysis signals.Analysis, previous, angle string) string {
	direction := "Use a completely different angle: if the previous message was emotional, be more direct; if it was direct, be more empathetic. Change the structure and the hook."
	if angle = strings.TrimSpace(angle); angle != "" {
		direction = "REQUESTED ANGLE: " + angle
	}
	return fmt.Sprintf(`PREVIOUS MESSAGE (do NOT repeat this approach):
%q

%s

DATA:
- Name: %s
- Role/Company: %s
- Trigger: %s
- Situation: %q
- Intent: %s
- Emotion: %s

Write ONLY the new message. No quotes or explanations.`,
		previous, direction, s.Name, s.RoleCompany, s.Trigger, s.Text, analysis.Intent, analysis.Emotion)
}
