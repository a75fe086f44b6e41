package check

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// stopWords are excluded from keyword tallies and title/H1 overlap.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true, "this": true, "but": true, "they": true,
	"have": true, "had": true, "what": true, "when": true, "where": true,
	"who": true, "which": true, "why": true, "how": true, "all": true,
	"each": true, "every": true, "both": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "can": true,
	"just": true, "should": true, "now": true, "i": true, "you": true,
	"we": true, "your": true, "my": true, "our": true, "their": true,
	"his": true, "her": true, "about": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "above": true,
	"below": true, "between": true, "under": true, "again": true,
	"further": true, "then": true, "once": true, "here": true,
	"there": true, "any": true, "if": true, "or": true, "because": true,
	"until": true, "while": true,
}

// powerWords raise click-through when they appear in a title.
var powerWords = []string{
	"ultimate", "complete", "essential", "proven", "powerful", "amazing",
	"best", "top", "secret", "exclusive", "free", "new", "easy", "simple",
	"fast", "quick", "instant", "guaranteed", "effective", "professional",
	"expert", "advanced", "comprehensive", "definitive", "guide", "tips",
	"tricks", "hacks", "strategies",
}

// ctaWords signal a call to action inside a meta description.
var ctaWords = []string{
	"learn", "discover", "get", "find", "try", "start", "buy", "shop",
	"read", "click", "download",
}

// compellingWords make a meta description more likely to earn a click.
var compellingWords = []string{
	"discover", "learn", "get", "find", "best", "top", "ultimate", "free",
	"easy", "proven", "exclusive",
}

// extractWords lowercases the text and returns its alphabetic word runs.
func extractWords(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// countSentences splits on terminal punctuation and counts the
// non-blank fragments.
func countSentences(text string) int {
	count := 0
	for _, part := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

// countSyllables approximates syllables as vowel groups, dropping a
// trailing silent e. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// topKeywords tallies words longer than two letters that are not stop
// words and returns the most frequent ones.
func topKeywords(words []string, limit int) []KeywordCount {
	tally := make(map[string]int)
	for _, w := range words {
		if len(w) > 2 && !stopWords[w] {
			tally[w]++
		}
	}
	return sortTally(tally, limit)
}

// sharedSignificantWords counts the non-stop words two texts have in
// common, for title versus H1 alignment.
func sharedSignificantWords(a, b string) int {
	setA := make(map[string]bool)
	for _, w := range extractWords(a) {
		if !titleOverlapStopWords[w] {
			setA[w] = true
		}
	}
	shared := 0
	seen := make(map[string]bool)
	for _, w := range extractWords(b) {
		if !titleOverlapStopWords[w] && setA[w] && !seen[w] {
			shared++
			seen[w] = true
		}
	}
	return shared
}

// titleOverlapStopWords is the short list used only for title/H1
// overlap, narrower than the keyword stop list.
var titleOverlapStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true,
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func countMatchingWords(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}
