// Package bot composes the router, toolkit and agent loop into the
// assistant's single entry point.
package bot

import (
	"context"
	"log/slog"

	"github.com/driveline-ai/driveline/pkg/models"
	"github.com/driveline-ai/driveline/pkg/router"
	"github.com/driveline-ai/driveline/pkg/tools"
)

// Classifier yields an intent for the user message.
type Classifier interface {
	Classify(ctx context.Context, userMessage string, history []models.Message) (models.Intent, error)
}

// LoopRunner drives one agent turn with a tool subset and instruction.
type LoopRunner interface {
	Run(ctx context.Context, userInput string, history []models.Message, registry *tools.Registry, instruction string) <-chan models.AgentResponse
}

// Bot answers one user message per Run call: classify the intent, pick
// the skill, and hand the turn to the agent loop with the skill's tool
// subset.
type Bot struct {
	classifier Classifier
	runner     LoopRunner
	registry   *tools.Registry
	logger     *slog.Logger
}

// New builds a bot. The registry must already contain every tool the
// skill table references (router.ValidateSkills enforces this at startup).
func New(classifier Classifier, runner LoopRunner, registry *tools.Registry) (*Bot, error) {
	if err := router.ValidateSkills(registry); err != nil {
		return nil, err
	}
	return &Bot{
		classifier: classifier,
		runner:     runner,
		registry:   registry,
		logger:     slog.Default().With("component", "bot"),
	}, nil
}

// Run executes one conversation turn, streaming complete AgentResponse
// snapshots. Classification failures surface as a single error emission.
func (b *Bot) Run(ctx context.Context, userInput string, history []models.Message) <-chan models.AgentResponse {
	intent, err := b.classifier.Classify(ctx, userInput, history)
	if err != nil {
		out := make(chan models.AgentResponse, 1)
		out <- models.AgentResponse{Err: err}
		close(out)
		return out
	}

	skill := router.SelectSkill(intent.Name)
	b.logger.Info("running skill", "skill", skill.Name, "tools", len(skill.RelevantTools))
	return b.runner.Run(ctx, userInput, history, b.registry.Subset(skill.RelevantTools...), skill.Instruction)
}
