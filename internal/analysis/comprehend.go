package analysis

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/spacesedan/postpulse/internal/models"
)

// Comprehend rejects documents larger than 5000 bytes.
const maxDocumentBytes = 5000

type ComprehendAnalyzer struct {
	client   *comprehend.Client
	language types.LanguageCode
}

func NewComprehendAnalyzer(client *comprehend.Client, languageCode string) *ComprehendAnalyzer {
	return &ComprehendAnalyzer{
		client:   client,
		language: types.LanguageCode(languageCode),
	}
}

func (a *ComprehendAnalyzer) DetectSentiment(ctx context.Context, text string) (models.SentimentResult, error) {
	out, err := a.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(truncateToByteLimit(text, maxDocumentBytes)),
		LanguageCode: a.language,
	})
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("[Comprehend] Sentiment detection failed: %w", err)
	}

	result := models.SentimentResult{Label: string(out.Sentiment)}
	if score := out.SentimentScore; score != nil {
		result.Scores = models.SentimentScores{
			Positive: float32Value(score.Positive),
			Negative: float32Value(score.Negative),
			Neutral:  float32Value(score.Neutral),
			Mixed:    float32Value(score.Mixed),
		}
	}

	return result, nil
}

func (a *ComprehendAnalyzer) DetectKeyPhrases(ctx context.Context, text string) ([]string, error) {
	out, err := a.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         aws.String(truncateToByteLimit(text, maxDocumentBytes)),
		LanguageCode: a.language,
	})
	if err != nil {
		return nil, fmt.Errorf("[Comprehend] Key phrase detection failed: %w", err)
	}

	// Engine order is kept; offsets and confidence are dropped.
	phrases := make([]string, 0, len(out.KeyPhrases))
	for _, kp := range out.KeyPhrases {
		if kp.Text != nil {
			phrases = append(phrases, *kp.Text)
		}
	}

	return phrases, nil
}

func truncateToByteLimit(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func float32Value(v *float32) float64 {
	if v == nil {
		return 0.0
	}
	return float64(*v)
}
