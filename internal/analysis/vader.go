package analysis

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/postpulse/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
	mixedFloor        = 0.30

	maxKeyPhrases   = 10
	minKeyPhraseLen = 4
)

// VaderAnalyzer is the in-process backend: VADER polarity scoring plus
// frequency-based key phrase extraction. Posts are markdown-stripped
// before scoring.
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (a *VaderAnalyzer) DetectSentiment(_ context.Context, text string) (models.SentimentResult, error) {
	plainText := ConvertMarkdownToText(text)
	sentiment := a.analyzer.PolarityScores(plainText)

	label := models.SentimentNeutral
	switch {
	case sentiment.Compound >= positiveThreshold:
		label = models.SentimentPositive
	case sentiment.Compound <= negativeThreshold:
		label = models.SentimentNegative
	case sentiment.Positive >= mixedFloor && sentiment.Negative >= mixedFloor:
		label = models.SentimentMixed
	}

	return models.SentimentResult{
		Label: label,
		Scores: models.SentimentScores{
			Positive: sentiment.Positive,
			Negative: sentiment.Negative,
			Neutral:  sentiment.Neutral,
		},
	}, nil
}

func (a *VaderAnalyzer) DetectKeyPhrases(_ context.Context, text string) ([]string, error) {
	return extractKeyPhrases(ConvertMarkdownToText(text), maxKeyPhrases), nil
}

func RemoveLinks(input string) string {
	linkPattern := regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text

	urlPattern := regexp.MustCompile(`https?://\S+|www\.\S+`)
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := tagPattern.ReplaceAllString(string(output), " ")
	plainText := strings.Join(strings.Fields(stripped), " ")

	return RemoveLinks(plainText)
}

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	wordPattern = regexp.MustCompile(`[a-zA-Z']+`)
)

var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"what": true, "were": true, "been": true, "they": true, "them": true,
	"when": true, "will": true, "would": true, "could": true, "should": true,
	"there": true, "their": true, "about": true, "which": true, "because": true,
	"just": true, "like": true, "really": true, "very": true, "your": true,
}

// extractKeyPhrases returns the most frequent meaningful words, most
// frequent first, ties broken by first appearance in the text.
func extractKeyPhrases(text string, max int) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, word := range words {
		if len(word) < minKeyPhraseLen || stopwords[word] {
			continue
		}
		if _, ok := counts[word]; !ok {
			firstSeen[word] = i
		}
		counts[word]++
	}

	phrases := make([]string, 0, len(counts))
	for word := range counts {
		phrases = append(phrases, word)
	}

	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return firstSeen[phrases[i]] < firstSeen[phrases[j]]
	})

	if len(phrases) > max {
		phrases = phrases[:max]
	}
	return phrases
}
