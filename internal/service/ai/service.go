package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"hardwarebot/internal/format"
	"hardwarebot/internal/models"
	"hardwarebot/internal/requestctx"
)

// Generator is the part of an eino chat model the relay needs.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// RelayConfig fixes the model identity and sampling for every call.
type RelayConfig struct {
	Provider    string
	Model       string
	Temperature float32
}

// Relay forwards single prompts to the remote model and formats the replies.
// It keeps no conversation history.
type Relay struct {
	generator Generator
	cfg       RelayConfig
	logger    *slog.Logger
}

func NewRelay(generator Generator, cfg RelayConfig, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{generator: generator, cfg: cfg, logger: logger}
}

// Ask sends prompt as one user message and returns the formatted reply.
// Every failure, including an empty reply, is a *models.RemoteServiceError.
func (r *Relay) Ask(ctx context.Context, prompt string) (string, error) {
	log := r.logger.With("request_id", requestctx.ID(ctx), "provider", r.cfg.Provider, "model", r.cfg.Model)
	log.Debug("sending prompt to model", "prompt_chars", len([]rune(prompt)))

	resp, err := r.generator.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithModel(r.cfg.Model),
		model.WithTemperature(r.cfg.Temperature),
	)
	if err != nil {
		return "", r.remoteErr(err)
	}
	if resp == nil {
		return "", r.remoteErr(errors.New("empty response"))
	}
	raw := strings.TrimSpace(resp.Content)
	if raw == "" {
		return "", r.remoteErr(errors.New("empty reply content"))
	}
	reply := format.Reply(raw)
	log.Debug("model replied", "reply_chars", len([]rune(reply)))
	return reply, nil
}

// Reply answers a chat message. It never fails: errors are logged and the
// fixed fallback reply is returned instead.
func (r *Relay) Reply(ctx context.Context, message string) string {
	reply, err := r.Ask(ctx, message)
	if err != nil {
		r.logger.Error("chat relay failed",
			"request_id", requestctx.ID(ctx),
			"err", err,
		)
		return models.FallbackReply
	}
	return reply
}

func (r *Relay) remoteErr(err error) error {
	return &models.RemoteServiceError{Provider: r.cfg.Provider, Err: err}
}
