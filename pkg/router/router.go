// Package router classifies user messages into intents and maps intents
// to skills: an instruction plus the tool subset the agent may use.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driveline-ai/driveline/pkg/llm"
	"github.com/driveline-ai/driveline/pkg/models"
)

const classifyPrompt = `You are the intent classifier for an automotive sales and service assistant.
Classify the user's message into exactly one of these intents:

- greeting: salutations and small talk with no actionable request
- general_qna: insurance, documentation, ownership and service questions
- car_recommendation: finding or filtering cars to buy
- car_comparison: comparing two or more specific cars
- book_ride: booking or confirming a test drive
- find_ev_charger_location: locating EV charging stations
- bike_recommendation: finding or filtering bikes to buy
- bike_comparison: comparing two or more specific bikes

Respond with only a JSON object: {"intent_name": "<intent>", "confidence": <0..1>}`

// Router classifies messages through the LLM gateway's structured mode.
type Router struct {
	classify func(ctx context.Context, msgs []models.Message) (models.Intent, error)
	logger   *slog.Logger
}

// NewRouter builds a router over the gateway.
func NewRouter(gateway *llm.Gateway) *Router {
	return &Router{
		classify: func(ctx context.Context, msgs []models.Message) (models.Intent, error) {
			return llm.StructuredResponse[models.Intent](ctx, gateway, msgs, func(i models.Intent) error {
				if !i.Valid() {
					return fmt.Errorf("intent %q with confidence %v is outside the contract", i.Name, i.Confidence)
				}
				return nil
			})
		},
		logger: slog.Default().With("component", "router"),
	}
}

// Classify returns the intent of the user message. Recent history gives
// the classifier context for elliptical follow-ups ("what about diesel?").
func (r *Router) Classify(ctx context.Context, userMessage string, history []models.Message) (models.Intent, error) {
	msgs := make([]models.Message, 0, len(history)+2)
	msgs = append(msgs, models.NewSystemMessage(classifyPrompt))
	msgs = append(msgs, history...)
	msgs = append(msgs, models.NewUserMessage(userMessage))

	intent, err := r.classify(ctx, msgs)
	if err != nil {
		return models.Intent{}, fmt.Errorf("classify intent: %w", err)
	}
	r.logger.Info("intent classified", "intent", intent.Name, "confidence", intent.Confidence)
	return intent, nil
}

// SelectSkill returns the skill for an intent. Unknown intents fall back
// to general Q&A so the conversation can still proceed.
func SelectSkill(intent models.IntentName) models.Skill {
	if s, ok := skills[intent]; ok {
		return s
	}
	return skills[models.IntentGeneralQNA]
}

// ToolNames lists every tool referenced by any skill, deduplicated.
func ToolNames() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range skills {
		for _, name := range s.RelevantTools {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// registryChecker is the slice of the tool registry validation needs.
type registryChecker interface {
	Has(name string) bool
}

// ValidateSkills verifies at startup that every tool a skill references is
// registered. A missing tool here is a wiring bug, not a runtime concern.
func ValidateSkills(registry registryChecker) error {
	var missing []string
	for intent, s := range skills {
		for _, name := range s.RelevantTools {
			if !registry.Has(name) {
				missing = append(missing, fmt.Sprintf("%s (skill %s)", name, intent))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("skills reference unregistered tools: %s", strings.Join(missing, ", "))
	}
	return nil
}
