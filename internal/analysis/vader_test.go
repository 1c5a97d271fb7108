package analysis

import (
	"context"
	"testing"

	"github.com/spacesedan/postpulse/internal/models"
	"github.com/stretchr/testify/require"
)

func TestVaderSentimentLabels(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "positive", text: "I love this, it is absolutely wonderful!", want: models.SentimentPositive},
		{name: "negative", text: "I hate this, it is a terrible awful experience.", want: models.SentimentNegative},
		{name: "neutral", text: "The meeting is scheduled for Tuesday.", want: models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.DetectSentiment(context.Background(), tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.want, result.Label)
			require.Zero(t, result.Scores.Mixed, "VADER reports no mixed class")
		})
	}
}

func TestVaderKeyPhraseOrdering(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	text := "coffee coffee coffee breakfast breakfast morning"
	phrases, err := analyzer.DetectKeyPhrases(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, []string{"coffee", "breakfast", "morning"}, phrases)
}

func TestVaderKeyPhrasesEmptyText(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	phrases, err := analyzer.DetectKeyPhrases(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, phrases)
}

func TestExtractKeyPhrasesFiltersNoise(t *testing.T) {
	got := extractKeyPhrases("this is a trip trip to the sea with friends friends friends", 3)
	require.Equal(t, []string{"friends", "trip"}, got)
}

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "markdown link keeps text", input: "see [the docs](https://example.com/docs)", want: "see the docs"},
		{name: "bare url removed", input: "look at https://example.com now", want: "look at  now"},
		{name: "no links", input: "nothing to strip", want: "nothing to strip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RemoveLinks(tt.input))
		})
	}
}

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("# Heading\n\nSome **bold** text")
	require.Equal(t, "Heading Some bold text", got)
}

func TestTruncateToByteLimit(t *testing.T) {
	require.Equal(t, "abc", truncateToByteLimit("abc", 5000))
	require.Equal(t, "ab", truncateToByteLimit("abcd", 2))

	// never splits a multi-byte rune
	got := truncateToByteLimit("aé", 2)
	require.Equal(t, "a", got)
}
