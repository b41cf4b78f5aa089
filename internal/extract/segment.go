package extract

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/model"
)

// RuleAnalyzer segments and annotates text with deterministic heuristics
type RuleAnalyzer struct {
	abbreviations map[string]bool
	titles        map[string]bool
}

// NewRuleAnalyzer creates a new rule-based analyzer
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{
		abbreviations: toSet(
			"e.g", "i.e", "etc", "vs", "cf", "al", "approx", "ca", "no", "vol",
			"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
			"u.s", "u.k", "u.n", "e.u", "a.m", "p.m", "inc", "ltd", "co", "corp", "jr", "sr",
		),
		titles: toSet(
			"mr", "mrs", "ms", "dr", "prof", "st", "mt", "gen", "col", "lt", "sgt",
			"capt", "gov", "sen", "rep", "rev", "hon", "pres",
		),
	}
}

// Name returns the analyzer name
func (a *RuleAnalyzer) Name() string {
	return "rules"
}

// Sentences splits text into sentences
func (a *RuleAnalyzer) Sentences(ctx context.Context, text string) ([]string, error) {
	return a.splitSentences(text), nil
}

// Analyze detects entities and noun chunks in a claim
func (a *RuleAnalyzer) Analyze(ctx context.Context, claim string) (model.Analysis, error) {
	tokens := tokenize(claim)
	return model.Analysis{
		Entities:   a.findEntities(claim, tokens),
		NounChunks: findNounChunks(tokens),
	}, nil
}

// splitSentences splits text on terminal punctuation and paragraph breaks
func (a *RuleAnalyzer) splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	runes := []rune(text)

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(collapseSpace(current.String()))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Blank line ends a paragraph
		if r == '\n' {
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && runes[j] == '\n' {
				flush()
				i = j
				continue
			}
			current.WriteRune(' ')
			continue
		}

		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Absorb runs of terminators and closing quotes/brackets
		j := i + 1
		for j < len(runes) && (isTerminator(runes[j]) || isCloser(runes[j])) {
			current.WriteRune(runes[j])
			j++
		}
		i = j - 1

		// A boundary needs whitespace or end of text after it
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			continue
		}

		if r == '.' && a.isAbbreviation(current.String(), nextWord(runes, j)) {
			continue
		}

		flush()
	}

	flush()
	return sentences
}

// isAbbreviation reports whether the trailing period belongs to an abbreviation.
// next is the word that follows, or "" at the end of text.
func (a *RuleAnalyzer) isAbbreviation(sentence string, next string) bool {
	fields := strings.Fields(sentence)
	if len(fields) == 0 {
		return false
	}
	last := strings.TrimRight(fields[len(fields)-1], ".")
	last = strings.TrimLeft(last, "\"'(“‘[")
	lower := strings.ToLower(last)

	// Titles always precede a name
	if a.titles[lower] {
		return true
	}

	nextFirst, _ := utf8.DecodeRuneInString(next)

	if r := []rune(last); len(r) == 1 && unicode.IsUpper(r[0]) {
		prev := ""
		if len(fields) > 1 {
			prev = fields[len(fields)-2]
		}
		return isNameInitial(prev, r[0], next)
	}

	// Other abbreviations end a sentence only when a capitalized word follows
	if a.abbreviations[lower] {
		return next == "" || !unicode.IsUpper(nextFirst)
	}

	return false
}

// isNameInitial decides whether "X." continues a name, as in "J. R. R. Tolkien"
// or "John F. Kennedy", rather than ending a sentence, as in "World War I."
func isNameInitial(prev string, letter rune, next string) bool {
	if next == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	if !unicode.IsUpper(first) {
		return true
	}
	if isInitialToken(next) {
		return true
	}
	if clauseStarters[strings.ToLower(strings.TrimRight(next, ".,;:!?"))] {
		return false
	}
	if prev == "" || isInitialToken(prev) {
		return true
	}
	p, _ := utf8.DecodeRuneInString(prev)
	if !unicode.IsUpper(p) {
		// "by J. Rowling" continues; "vitamin C. Vitamins" does not
		w := strings.ToLower(strings.Trim(prev, "\"'(“‘[,"))
		return prepositions[w] || conjunctions[w]
	}
	// Roman numerals after a name: "World War I.", "Henry V."
	return letter != 'I' && letter != 'V' && letter != 'X'
}

// isInitialToken reports whether w is a single capital letter with a period
func isInitialToken(w string) bool {
	r := []rune(strings.TrimLeft(w, "\"'(“‘["))
	return len(r) == 2 && unicode.IsUpper(r[0]) && r[1] == '.'
}

// nextWord returns the word starting at or after index j, skipping spaces
// and opening quotes; "" when text ends or punctuation comes first
func nextWord(runes []rune, j int) string {
	for ; j < len(runes); j++ {
		if unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) {
			break
		}
		if !unicode.IsSpace(runes[j]) && !isOpener(runes[j]) {
			return ""
		}
	}
	start := j
	for j < len(runes) && !unicode.IsSpace(runes[j]) {
		j++
	}
	return string(runes[start:j])
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']', '»':
		return true
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '“', '‘', '(', '[', '«':
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
