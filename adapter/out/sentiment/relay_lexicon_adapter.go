package sentiment

import (
	"context"
	"strings"
	"unicode"

	"relay_server/core/port/out"
)

// wordScore is one lexicon entry.
type wordScore struct {
	polarity     float64
	subjectivity float64
}

// sentimentLexicon covers the vocabulary of casual chat. Scores follow
// the usual pattern-lexicon conventions: polarity in [-1,1],
// subjectivity in [0,1].
var sentimentLexicon = map[string]wordScore{
	// Positive
	"happy":     {0.8, 1.0},
	"great":     {0.8, 0.75},
	"good":      {0.7, 0.6},
	"awesome":   {1.0, 1.0},
	"amazing":   {0.6, 0.9},
	"excellent": {1.0, 1.0},
	"love":      {0.5, 0.6},
	"loved":     {0.7, 0.8},
	"like":      {0.3, 0.4},
	"excited":   {0.3, 0.8},
	"fun":       {0.3, 0.2},
	"funny":     {0.25, 0.9},
	"hilarious": {0.5, 0.9},
	"best":      {1.0, 0.3},
	"better":    {0.5, 0.5},
	"nice":      {0.6, 1.0},
	"glad":      {0.5, 1.0},
	"thanks":    {0.2, 0.2},
	"thank":     {0.2, 0.2},
	"perfect":   {1.0, 1.0},
	"wonderful": {1.0, 1.0},
	"beautiful": {0.85, 1.0},
	"cool":      {0.35, 0.65},
	"yay":       {0.6, 0.9},
	"haha":      {0.4, 0.8},
	"lol":       {0.4, 0.8},
	"sweet":     {0.35, 0.65},
	"win":       {0.4, 0.4},
	"won":       {0.4, 0.4},
	"delighted": {0.9, 1.0},

	// Negative
	"sad":        {-0.5, 1.0},
	"bad":        {-0.7, 0.67},
	"terrible":   {-1.0, 1.0},
	"awful":      {-1.0, 1.0},
	"horrible":   {-1.0, 1.0},
	"hate":       {-0.8, 0.9},
	"hated":      {-0.9, 0.7},
	"angry":      {-0.5, 1.0},
	"mad":        {-0.625, 1.0},
	"annoyed":    {-0.4, 0.8},
	"annoying":   {-0.5, 0.8},
	"upset":      {-0.375, 0.5},
	"worried":    {-0.3, 0.6},
	"worst":      {-1.0, 0.3},
	"worse":      {-0.5, 0.5},
	"cry":        {-0.5, 0.8},
	"crying":     {-0.5, 0.8},
	"miss":       {-0.2, 0.3},
	"lonely":     {-0.4, 0.7},
	"tired":      {-0.3, 0.6},
	"sick":       {-0.7, 0.8},
	"sorry":      {-0.3, 0.6},
	"hurt":       {-0.5, 0.7},
	"scared":     {-0.6, 0.9},
	"afraid":     {-0.6, 0.9},
	"lost":       {-0.25, 0.3},
	"fail":       {-0.5, 0.5},
	"failed":     {-0.5, 0.5},
	"ugh":        {-0.4, 0.8},
	"depressed":  {-0.7, 0.9},
	"frustrated": {-0.5, 0.8},
}

// Modifier words adjust the following sentiment word.
var (
	negators     = map[string]bool{"not": true, "never": true, "no": true, "cannot": true, "cant": true, "dont": true, "didnt": true, "isnt": true, "wasnt": true, "wont": true}
	intensifiers = map[string]float64{"very": 1.3, "really": 1.3, "so": 1.35, "extremely": 1.5, "totally": 1.3, "super": 1.4, "absolutely": 1.5}
	diminishers  = map[string]float64{"slightly": 0.7, "somewhat": 0.7, "kinda": 0.7, "barely": 0.5, "little": 0.7, "bit": 0.7}
)

// LexiconAdapter is a deterministic, offline sentiment estimator. It is
// the default provider and the fallback when no OpenAI key is
// configured.
type LexiconAdapter struct{}

// NewLexiconAdapter creates the adapter.
func NewLexiconAdapter() *LexiconAdapter {
	return &LexiconAdapter{}
}

// Analyze averages the lexicon scores of the text's words, applying
// negation and intensity modifiers. Text without any scored word is
// neutral and fully objective.
func (a *LexiconAdapter) Analyze(_ context.Context, text string) (out.SentimentScore, error) {
	words := tokenizeWords(text)

	var (
		polaritySum     float64
		subjectivitySum float64
		scored          int
	)

	negated := false
	weight := 1.0
	for _, word := range words {
		if negators[word] {
			negated = true
			continue
		}
		if w, ok := intensifiers[word]; ok {
			weight *= w
			continue
		}
		if w, ok := diminishers[word]; ok {
			weight *= w
			continue
		}

		entry, ok := sentimentLexicon[word]
		if !ok {
			// A plain word resets pending modifiers.
			negated = false
			weight = 1.0
			continue
		}

		polarity := entry.polarity * weight
		if negated {
			// Negation flips and dampens rather than mirroring.
			polarity *= -0.5
		}

		polaritySum += clampRange(polarity, -1, 1)
		subjectivitySum += clampRange(entry.subjectivity, 0, 1)
		scored++

		negated = false
		weight = 1.0
	}

	if scored == 0 {
		return out.SentimentScore{}, nil
	}
	return out.SentimentScore{
		Polarity:     polaritySum / float64(scored),
		Subjectivity: subjectivitySum / float64(scored),
	}, nil
}

// tokenizeWords lowercases and strips everything but letters, so
// "can't" and "cant" collapse to the same token.
func tokenizeWords(text string) []string {
	var words []string
	var current strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
			continue
		}
		if r == '\'' {
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
