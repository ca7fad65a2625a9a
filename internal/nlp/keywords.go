package nlp

import "strings"

// emotionCategories maps an emotion category to its trigger words. One
// non-negated hit is enough to tag the category.
var emotionCategories = map[string][]string{
	"joy":        {"happy", "excited", "delighted", "pleased", "cheerful", "glad", "thrilled", "content", "satisfied", "elated", "ecstatic"},
	"sadness":    {"sad", "unhappy", "depressed", "miserable", "down", "gloomy", "disappointed", "upset", "tearful", "heartbroken", "hopeless"},
	"anger":      {"angry", "mad", "furious", "irritated", "annoyed", "outraged", "frustrated", "enraged", "indignant", "resentful", "hostile"},
	"fear":       {"afraid", "scared", "frightened", "terrified", "anxious", "worried", "nervous", "alarmed", "panicked", "tense", "uneasy"},
	"love":       {"loving", "affectionate", "caring", "adoring", "fond", "passionate", "tender", "romantic", "attached", "devoted"},
	"surprise":   {"surprised", "shocked", "astonished", "amazed", "startled", "stunned", "bewildered", "dumbfounded", "speechless", "wow"},
	"optimism":   {"optimistic", "hopeful", "confident", "positive", "motivated", "inspired", "determined", "eager", "enthusiastic", "ambitious"},
	"exhaustion": {"exhausted", "tired", "fatigued", "drained", "weary", "sleepy", "lethargic", "spent", "worn out", "burned out", "lazy"},
}

// symptomCategories accumulate every matched non-negated keyword.
var symptomCategories = map[string][]string{
	"pain":      {"cramp", "ache", "pain", "sore", "tender", "sharp", "stabbing", "throbbing", "burning", "stinging"},
	"physical":  {"bloat", "fatigue", "tired", "nausea", "headache", "breast", "acne", "swelling", "dizziness", "weakness"},
	"digestive": {"bloating", "nausea", "appetite", "craving", "stomach", "indigestion", "constipation", "diarrhea", "gas"},
	"sleep":     {"insomnia", "restless", "exhausted", "sleepy", "tired", "drowsy", "oversleeping", "undersleeping", "nightmares"},
}

var negationWords = map[string]struct{}{
	"no": {}, "not": {}, "don't": {}, "dont": {}, "doesn't": {}, "doesnt": {},
	"didn't": {}, "didnt": {}, "wasn't": {}, "wasnt": {}, "aren't": {}, "arent": {},
	"haven't": {}, "havent": {},
}

var intensifierWords = map[string]struct{}{
	"very": {}, "really": {}, "extremely": {}, "so": {}, "too": {}, "quite": {},
	"absolutely": {}, "incredibly": {}, "totally": {}, "completely": {},
}

// keywordNegated reports whether any occurrence of the keyword in the
// lower-cased word list has a negation word within the 3 words before
// it. A single negated occurrence suppresses the keyword.
func keywordNegated(words []string, keyword string) bool {
	for i, word := range words {
		if !strings.Contains(word, keyword) {
			continue
		}
		windowStart := i - 3
		if windowStart < 0 {
			windowStart = 0
		}
		for j := windowStart; j < i; j++ {
			if _, negates := negationWords[words[j]]; negates {
				return true
			}
		}
	}
	return false
}

// matchEmotionKeywords returns the emotion categories triggered by the
// lower-cased text; first matching keyword wins per category.
func matchEmotionKeywords(loweredText string) []string {
	words := strings.Fields(loweredText)
	found := make([]string, 0)
	for _, category := range emotionCategoryOrder {
		for _, keyword := range emotionCategories[category] {
			if !strings.Contains(loweredText, keyword) {
				continue
			}
			if keywordNegated(words, keyword) {
				continue
			}
			found = append(found, category)
			break
		}
	}
	return found
}

// matchSymptomKeywords returns every non-negated symptom keyword found
// in the lower-cased text, grouped by category.
func matchSymptomKeywords(loweredText string) map[string][]string {
	words := strings.Fields(loweredText)
	found := make(map[string][]string)
	for _, category := range symptomCategoryOrder {
		matches := make([]string, 0)
		for _, keyword := range symptomCategories[category] {
			if !strings.Contains(loweredText, keyword) {
				continue
			}
			if keywordNegated(words, keyword) {
				continue
			}
			matches = append(matches, keyword)
		}
		if len(matches) > 0 {
			found[category] = matches
		}
	}
	return found
}

// Fixed iteration orders keep Analyze deterministic across calls.
var emotionCategoryOrder = []string{"joy", "sadness", "anger", "fear", "love", "surprise", "optimism", "exhaustion"}
var symptomCategoryOrder = []string{"pain", "physical", "digestive", "sleep"}
