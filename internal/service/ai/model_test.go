package ai

import (
	"context"
	"testing"

	"hardwarebot/internal/config"
)

func TestNewChatModelRejectsUnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), "mystery", config.ProviderConfig{APIKey: "k", Model: "m"})
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewChatModelCohere(t *testing.T) {
	cfg := config.Defaults().Providers["cohere"]
	cfg.APIKey = "test-key"
	chatModel, err := NewChatModel(context.Background(), "cohere", cfg)
	if err != nil {
		t.Fatalf("build cohere model: %v", err)
	}
	if chatModel == nil {
		t.Fatalf("expected a chat model")
	}
}
