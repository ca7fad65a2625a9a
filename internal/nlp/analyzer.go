package nlp

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
	prose "github.com/jdkato/prose/v2"
)

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentUnknown  = "UNKNOWN"
)

// emotionTagThreshold is the minimum model probability for an emotion
// to surface as a detected tag.
const emotionTagThreshold = 0.15

// Result is the ephemeral outcome of one text analysis. Emotions from
// both the classifier and keyword matching land in the "emotional"
// symptom category, as the mood log consumer expects.
type Result struct {
	Sentiment      string              `json:"sentiment"`
	SentimentScore float64             `json:"sentiment_score"`
	Symptoms       map[string][]string `json:"identified_symptoms"`
	Emotions       map[string]float64  `json:"detected_emotions,omitempty"`
	Intensity      float64             `json:"emotional_intensity"`
	KeyTerms       []string            `json:"key_terms"`
	Error          string              `json:"error,omitempty"`
}

// EmotionTags returns the detected emotion categories.
func (result Result) EmotionTags() []string {
	return result.Symptoms["emotional"]
}

// SymptomTags flattens the matched symptom keywords across the
// non-emotional categories.
func (result Result) SymptomTags() []string {
	tags := make([]string, 0)
	for _, category := range symptomCategoryOrder {
		tags = append(tags, result.Symptoms[category]...)
	}
	return tags
}

// Analyzer extracts sentiment, emotions, symptoms, intensity and key
// terms from free text. The emotion source is fixed at construction:
// model-backed when the classifier loaded, keyword-backed otherwise.
type Analyzer struct {
	emotions EmotionSource
}

func NewAnalyzer(emotions EmotionSource) *Analyzer {
	if emotions == nil {
		emotions = NewKeywordEmotionSource()
	}
	return &Analyzer{emotions: emotions}
}

// Analyze never fails: internal errors degrade to a keyword-only
// result carrying the error description.
func (analyzer *Analyzer) Analyze(text string) Result {
	if countNonSpace(text) < 3 {
		return emptyResult()
	}

	result, err := analyzer.analyze(text)
	if err != nil {
		return fallbackResult(text, err)
	}
	return result
}

func (analyzer *Analyzer) analyze(text string) (result Result, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("text analysis panic: %v", recovered)
		}
	}()

	lowered := strings.ToLower(text)

	polarity := sentimentPolarity(lowered)
	sentiment := classifySentiment(polarity)

	emotions := analyzer.emotions.Distribution(text)

	symptoms := matchSymptomKeywords(lowered)

	// Model emotions above the confidence threshold become tags.
	emotional := make([]string, 0)
	for _, label := range sortedKeys(emotions) {
		if emotions[label] > emotionTagThreshold {
			emotional = append(emotional, label)
		}
	}
	// Keyword-matched emotions supplement the model's, deduplicated.
	for _, category := range matchEmotionKeywords(lowered) {
		if !slices.Contains(emotional, category) {
			emotional = append(emotional, category)
		}
	}
	if len(emotional) > 0 {
		symptoms["emotional"] = emotional
	}

	intensity := lexicalIntensity(text, polarity)
	if topEmotion := maxProbability(emotions); topEmotion > intensity {
		intensity = topEmotion
	}

	keyTerms, err := extractKeyTerms(text)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Sentiment:      sentiment,
		SentimentScore: polarity,
		Symptoms:       symptoms,
		Emotions:       emotions,
		Intensity:      intensity,
		KeyTerms:       keyTerms,
	}, nil
}

func emptyResult() Result {
	return Result{
		Sentiment: SentimentNeutral,
		Symptoms:  map[string][]string{},
		KeyTerms:  []string{},
	}
}

// fallbackResult still attempts keyword extraction so a failed analysis
// carries whatever lexical signal remains.
func fallbackResult(text string, analysisErr error) Result {
	lowered := strings.ToLower(text)
	symptoms := matchSymptomKeywords(lowered)
	if emotional := matchEmotionKeywords(lowered); len(emotional) > 0 {
		symptoms["emotional"] = emotional
	}
	return Result{
		Sentiment: SentimentUnknown,
		Symptoms:  symptoms,
		KeyTerms:  []string{},
		Error:     analysisErr.Error(),
	}
}

func sentimentPolarity(loweredText string) float64 {
	parsed := sentitext.Parse(loweredText, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

func classifySentiment(polarity float64) string {
	switch {
	case polarity > 0:
		return SentimentPositive
	case polarity < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// lexicalIntensity scores emotional intensity from surface features:
// polarity magnitude, exclamations, intensifiers and ALL-CAPS words,
// capped at 1.
func lexicalIntensity(text string, polarity float64) float64 {
	exclamationCount := strings.Count(text, "!")

	intensifierCount := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, isIntensifier := intensifierWords[word]; isIntensifier {
			intensifierCount++
		}
	}

	capsCount := 0
	for _, word := range strings.Fields(text) {
		if len(word) > 2 && word == strings.ToUpper(word) && strings.ContainsFunc(word, unicode.IsLetter) {
			capsCount++
		}
	}

	intensity := math.Abs(polarity) +
		float64(exclamationCount)*0.15 +
		float64(intensifierCount)*0.2 +
		float64(capsCount)*0.25
	if intensity > 1 {
		intensity = 1
	}
	return intensity
}

// extractKeyTerms keeps part-of-speech tagged adjectives and nouns
// longer than 2 characters, deduplicated in order of appearance.
func extractKeyTerms(text string) ([]string, error) {
	document, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tag text: %w", err)
	}

	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, token := range document.Tokens() {
		if !strings.HasPrefix(token.Tag, "JJ") && !strings.HasPrefix(token.Tag, "NN") {
			continue
		}
		term := strings.ToLower(token.Text)
		if len(term) <= 2 {
			continue
		}
		if _, duplicate := seen[term]; duplicate {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms, nil
}

func countNonSpace(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

func maxProbability(distribution map[string]float64) float64 {
	highest := 0.0
	for _, probability := range distribution {
		if probability > highest {
			highest = probability
		}
	}
	return highest
}

func sortedKeys(distribution map[string]float64) []string {
	keys := make([]string, 0, len(distribution))
	for key := range distribution {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
