package cmd

import (
	"context"
	"fmt"

	"github.com/facekiosk/facekiosk/internal/config"
	"github.com/facekiosk/facekiosk/internal/kiosk"
	"github.com/facekiosk/facekiosk/internal/recognizer"
	"github.com/facekiosk/facekiosk/internal/store"
	"github.com/facekiosk/facekiosk/internal/webhook"
)

// components bundles everything a command needs to talk to the kiosk.
type components struct {
	cfg     *config.Config
	store   store.Store
	webhook *webhook.Client
	rec     *recognizer.Client
	kiosk   *kiosk.Service
}

func (c *components) close() {
	if err := c.store.Close(); err != nil {
		fmt.Printf("Warning: closing store: %v\n", err)
	}
}

// buildProvider creates the configured vision-language backend.
func buildProvider(ctx context.Context, cfg *config.Config) (recognizer.Provider, error) {
	switch cfg.Kiosk.Provider {
	case "openai":
		return recognizer.NewOpenAIProvider(cfg.OpenAI.Token, cfg.Kiosk.ConfidenceThreshold)
	case "gemini":
		return recognizer.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Kiosk.ConfidenceThreshold)
	default:
		return nil, fmt.Errorf("unknown provider %q (expected openai or gemini)", cfg.Kiosk.Provider)
	}
}

// buildComponents wires the store, recognizer, webhook client and
// orchestrator the same way for every command. It also seeds the embedded
// roster and the initial webhook URL from the environment.
func buildComponents(ctx context.Context) (*components, error) {
	cfg := config.Load()

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.Options{
		Path:        cfg.Store.Path,
		DatabaseDSN: cfg.Store.DatabaseDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	rec := recognizer.NewClient(provider, cfg.Kiosk.ConfidenceThreshold, cfg.Kiosk.MaxReferencePhotos)
	wh := webhook.NewClient()

	svc := kiosk.New(st, rec, wh, kiosk.Options{
		StaffCapacity:   cfg.Kiosk.StaffCapacity,
		HistoryCapacity: cfg.Kiosk.HistoryCapacity,
		DuplicateWindow: cfg.Kiosk.DuplicateWindow,
	})

	if err := svc.SeedRoster(ctx, cfg.Roster.Staff); err != nil {
		fmt.Printf("Warning: seeding roster: %v\n", err)
	}

	// A webhook URL from the environment only fills an empty slot; a URL
	// set through the settings endpoint wins.
	if cfg.Webhook.URL != "" {
		settings, err := svc.Settings(ctx)
		if err == nil && settings.WebhookURL == "" {
			if err := svc.SetWebhookURL(ctx, cfg.Webhook.URL); err != nil {
				fmt.Printf("Warning: KIOSK_WEBHOOK_URL rejected: %v\n", err)
			}
		}
	}

	return &components{cfg: cfg, store: st, webhook: wh, rec: rec, kiosk: svc}, nil
}
