package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/spacesedan/postpulse/internal/clients"
	"github.com/spacesedan/postpulse/internal/models"
)

type TextAnalyzer interface {
	DetectSentiment(ctx context.Context, text string) (models.SentimentResult, error)
	DetectKeyPhrases(ctx context.Context, text string) ([]string, error)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// FromEnv selects the analyzer backend. Comprehend is the default;
// vader runs fully in-process for local development.
func FromEnv() (TextAnalyzer, error) {
	language := getEnv("ANALYSIS_LANGUAGE_CODE", "en")

	switch name := getEnv("TEXT_ANALYZER", "comprehend"); name {
	case "comprehend":
		return NewComprehendAnalyzer(clients.GetComprehendClient(), language), nil
	case "vader":
		return NewVaderAnalyzer(), nil
	default:
		return nil, fmt.Errorf("[Analysis] Unknown analyzer backend: %q", name)
	}
}
