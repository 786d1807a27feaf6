// Package analysis implements the one-shot conversation analysis
// pipeline: emotion extraction, sentiment aggregation, topic ranking
// and temporal bucketing.
package analysis

import (
	"strings"

	"relay_server/core/domain"
)

// emotionLexicon maps each emotion to its keyword/emoji list. The map
// is only ever read through domain.EmotionOrder, so iteration is
// deterministic. Shared across concurrent analyses without locking.
var emotionLexicon = map[domain.Emotion][]string{
	domain.EmotionJoy: {
		"happy", "excited", "great", "awesome", "love", "lol", "haha",
		"wonderful", "amazing", "fantastic", "glad", "yay", "😂", "😊", "❤️",
	},
	domain.EmotionSadness: {
		"sad", "sorry", "miss", "cry", "depressed", "down",
		"unhappy", "disappointed", "hurt", "😢", "😭",
	},
	domain.EmotionAnger: {
		"angry", "mad", "hate", "annoyed", "frustrated", "furious",
		"irritated", "pissed", "😠", "😡",
	},
	domain.EmotionFear: {
		"worried", "scared", "afraid", "anxious", "nervous", "fear",
		"concern", "stress", "panic",
	},
	domain.EmotionSurprise: {
		"wow", "omg", "really", "shocked", "surprised", "unbelievable",
		"amazing", "😱", "😲",
	},
	domain.EmotionNeutral: {
		"okay", "ok", "fine", "alright", "sure", "maybe",
	},
}

// EmotionClassifier labels messages against the fixed keyword lexicon.
type EmotionClassifier struct {
	lexicon map[domain.Emotion][]string
}

// NewEmotionClassifier creates a classifier over the built-in lexicon.
func NewEmotionClassifier() *EmotionClassifier {
	return &EmotionClassifier{lexicon: emotionLexicon}
}

// ClassifyMessage returns the message's primary emotion and the number
// of keyword matches per emotion. The primary emotion is the first
// matched emotion in lexicon declaration order, not the most frequent.
// A message with no matches is neutral, reported with a single neutral
// count so it still contributes to the aggregate denominator.
func (c *EmotionClassifier) ClassifyMessage(content string) (domain.Emotion, map[domain.Emotion]int) {
	text := strings.ToLower(content)
	counts := make(map[domain.Emotion]int)

	primary := domain.Emotion("")
	for _, emotion := range domain.EmotionOrder {
		for _, keyword := range c.lexicon[emotion] {
			if strings.Contains(text, keyword) {
				counts[emotion]++
				if primary == "" {
					primary = emotion
				}
			}
		}
	}

	if primary == "" {
		counts[domain.EmotionNeutral] = 1
		primary = domain.EmotionNeutral
	}
	return primary, counts
}

// Profile aggregates emotion counts over the whole conversation.
func (c *EmotionClassifier) Profile(messages []domain.Message) domain.EmotionProfile {
	totals := make(map[domain.Emotion]int)
	perMessage := make([]domain.Emotion, 0, len(messages))

	for _, msg := range messages {
		primary, counts := c.ClassifyMessage(msg.Content)
		for emotion, n := range counts {
			totals[emotion] += n
		}
		perMessage = append(perMessage, primary)
	}

	sum := 0
	for _, n := range totals {
		sum += n
	}

	percentages := make(map[domain.Emotion]float64, len(totals))
	for emotion, n := range totals {
		if sum > 0 {
			percentages[emotion] = float64(n) / float64(sum) * 100
		}
	}

	// Dominant emotion, ties broken by lexicon declaration order.
	dominant := domain.EmotionNeutral
	best := -1
	for _, emotion := range domain.EmotionOrder {
		if n, ok := totals[emotion]; ok && n > best {
			dominant = emotion
			best = n
		}
	}

	return domain.EmotionProfile{
		Counts:      totals,
		Percentages: percentages,
		Dominant:    dominant,
		PerMessage:  perMessage,
	}
}
