package analysis

import (
	"sort"
	"strings"
	"unicode"

	"relay_server/core/domain"
)

const (
	topTermCount   = 10
	topPhraseCount = 5
	minTokenLength = 4 // tokens shorter than this are dropped
)

// stopWords is the fixed English stop-word set used for token
// filtering. Filtered tokens are excluded from bigram formation too,
// not merely from unigram counting.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"the", "and", "that", "have", "for", "not", "with", "you", "this",
		"but", "his", "from", "they", "she", "her", "will", "would", "there",
		"their", "what", "about", "which", "when", "make", "like", "time",
		"just", "him", "know", "take", "into", "your", "some", "could",
		"them", "than", "then", "look", "only", "come", "over", "think",
		"also", "back", "after", "work", "first", "well", "even", "want",
		"because", "these", "give", "most", "where", "been", "much", "were",
		"said", "each", "other", "many", "does", "doing", "having", "more",
		"very", "here", "both", "down", "such", "through", "before", "again",
		"those", "being", "once", "itself", "himself", "herself", "yours",
		"ours", "theirs", "while", "should", "until", "cant", "dont", "wont",
		"didnt", "thats", "youre", "gonna", "yeah",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// TopicExtractor ranks single words and adjacent-word pairs by
// frequency across a conversation.
type TopicExtractor struct{}

// NewTopicExtractor creates a topic extractor.
func NewTopicExtractor() *TopicExtractor {
	return &TopicExtractor{}
}

// Profile tokenizes all message text, filters the token stream and
// returns the top terms and phrases. Ties rank in first-encountered
// order.
func (t *TopicExtractor) Profile(messages []domain.Message) domain.TopicProfile {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, strings.ToLower(msg.Content))
	}
	tokens := filterTokens(tokenize(strings.Join(parts, " ")))

	unigrams := countOrdered(tokens)

	bigrams := make([]string, 0, max(0, len(tokens)-1))
	for i := 0; i+1 < len(tokens); i++ {
		bigrams = append(bigrams, tokens[i]+" "+tokens[i+1])
	}
	phrases := countOrdered(bigrams)

	return domain.TopicProfile{
		TopTerms:           topN(unigrams, topTermCount),
		TopPhrases:         topN(phrases, topPhraseCount),
		VocabularySize:     len(unigrams),
		FilteredTokenCount: len(tokens),
	}
}

// tokenize splits text into maximal letter runs, discarding digits and
// punctuation.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func filterTokens(tokens []string) []string {
	filtered := tokens[:0:0]
	for _, tok := range tokens {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// orderedCount tracks a term's frequency and first appearance.
type orderedCount struct {
	term  string
	count int
	first int
}

func countOrdered(terms []string) []orderedCount {
	index := make(map[string]int, len(terms))
	counts := make([]orderedCount, 0, len(terms))
	for i, term := range terms {
		if at, ok := index[term]; ok {
			counts[at].count++
			continue
		}
		index[term] = len(counts)
		counts = append(counts, orderedCount{term: term, count: 1, first: i})
	}
	return counts
}

func topN(counts []orderedCount, n int) []domain.TermCount {
	sorted := make([]orderedCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].first < sorted[j].first
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	result := make([]domain.TermCount, len(sorted))
	for i, c := range sorted {
		result[i] = domain.TermCount{Term: c.term, Count: c.count}
	}
	return result
}
