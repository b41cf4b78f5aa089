package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/model"
)

// token is a word or punctuation mark with byte offsets into the claim
type token struct {
	text  string
	start int
	end   int
	punct bool
}

func (t token) lower() string {
	return strings.ToLower(t.text)
}

func (t token) capitalized() bool {
	if t.punct {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.text)
	return unicode.IsUpper(r)
}

// possessive reports whether the token ends in 's
func (t token) possessive() bool {
	return strings.HasSuffix(t.text, "'s") || strings.HasSuffix(t.text, "’s")
}

// baseEnd is the end offset without a possessive suffix
func (t token) baseEnd() int {
	return t.start + len(stripPossessive(t.text))
}

// tokenize splits a claim into word and punctuation tokens
func tokenize(s string) []token {
	var tokens []token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			i += size
			for i < len(s) {
				r2, sz := utf8.DecodeRuneInString(s[i:])
				if unicode.IsLetter(r2) || unicode.IsDigit(r2) {
					i += sz
					continue
				}
				if i+sz < len(s) && isInnerMark(r2) {
					r3, _ := utf8.DecodeRuneInString(s[i+sz:])
					if unicode.IsLetter(r3) || unicode.IsDigit(r3) {
						if r2 == ',' && !(unicode.IsDigit(r3) && unicode.IsDigit(lastRune(s[start:i]))) {
							break
						}
						i += sz
						continue
					}
				}
				break
			}
			// Keep the final period of dotted acronyms such as "U.S."
			if i < len(s) && s[i] == '.' && strings.Contains(s[start:i], ".") {
				i++
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i})
		default:
			tokens = append(tokens, token{text: string(r), start: i, end: i + size, punct: true})
			i += size
		}
	}
	return tokens
}

func isInnerMark(r rune) bool {
	return r == '-' || r == '\'' || r == '’' || r == '.' || r == ','
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

var quotedTitle = regexp.MustCompile(`[“"]([^”"]{2,120})[”"]`)

// entitySpan is an entity with its start offset, used for ordering
type entitySpan struct {
	entity model.Entity
	start  int
}

// findEntities detects capitalized spans and quoted titles
func (a *RuleAnalyzer) findEntities(claim string, tokens []token) []model.Entity {
	var spans []entitySpan

	// Quoted titles are works of art
	var quoted [][2]int
	for _, m := range quotedTitle.FindAllStringSubmatchIndex(claim, -1) {
		inner := strings.TrimSpace(claim[m[2]:m[3]])
		r, _ := utf8.DecodeRuneInString(inner)
		if inner == "" || !unicode.IsUpper(r) {
			continue
		}
		quoted = append(quoted, [2]int{m[0], m[1]})
		spans = append(spans, entitySpan{
			entity: model.Entity{Text: inner, Label: model.LabelWorkOfArt},
			start:  m[0],
		})
	}
	inQuote := func(t token) bool {
		for _, q := range quoted {
			if t.start >= q[0] && t.end <= q[1] {
				return true
			}
		}
		return false
	}

	firstWord := -1
	for i, t := range tokens {
		if !t.punct {
			firstWord = i
			break
		}
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !t.capitalized() || inQuote(t) {
			continue
		}

		forcePerson := false
		if honorifics[t.lower()] {
			// "Dr. Smith" or "President Lincoln": the name follows the title
			next := i + 1
			if next < len(tokens) && tokens[next].text == "." {
				next++
			}
			if next < len(tokens) && tokens[next].capitalized() && !inQuote(tokens[next]) {
				i = next
				t = tokens[i]
				forcePerson = true
			}
		}

		if !forcePerson && i == firstWord && sentenceInitialSkip[t.lower()] {
			continue
		}

		end := i + 1
		if !t.possessive() {
			for end < len(tokens) {
				next := tokens[end]
				if next.capitalized() && !inQuote(next) {
					end++
					if next.possessive() {
						break
					}
					continue
				}
				if connectors[next.lower()] && end+1 < len(tokens) &&
					tokens[end+1].capitalized() && !inQuote(tokens[end+1]) {
					end += 2
					if tokens[end-1].possessive() {
						break
					}
					continue
				}
				break
			}
		}

		words := make([]string, 0, end-i)
		for _, w := range tokens[i:end] {
			words = append(words, stripPossessive(w.text))
		}

		label := labelSpan(words)
		if forcePerson {
			label = model.LabelPerson
		}

		spans = append(spans, entitySpan{
			entity: model.Entity{
				Text:  claim[tokens[i].start:tokens[end-1].baseEnd()],
				Label: label,
			},
			start: tokens[i].start,
		})
		i = end - 1
	}

	sort.SliceStable(spans, func(x, y int) bool { return spans[x].start < spans[y].start })

	seen := make(map[string]bool)
	var entities []model.Entity
	for _, s := range spans {
		key := strings.ToLower(s.entity.Text)
		if s.entity.Text == "" || seen[key] {
			continue
		}
		seen[key] = true
		entities = append(entities, s.entity)
	}
	return entities
}

func stripPossessive(s string) string {
	s = strings.TrimSuffix(s, "'s")
	return strings.TrimSuffix(s, "’s")
}

// labelSpan assigns an entity label from gazetteers and cue words
func labelSpan(words []string) model.EntityLabel {
	joined := strings.Join(words, " ")
	lower := strings.ToLower(joined)
	first := words[0]
	last := words[len(words)-1]

	switch {
	case gpeNames[lower]:
		return model.LabelGPE
	case locNames[lower]:
		return model.LabelLoc
	case facCues[last]:
		return model.LabelFac
	case orgCues[last] || orgHeads[first]:
		return model.LabelOrg
	case containsAny(words, eventCues):
		return model.LabelEvent
	case locCues[last] || locHeads[first]:
		return model.LabelLoc
	case len(words) == 1 && isAcronym(first):
		return model.LabelOrg
	case len(words) >= 2 && !containsAny(words, connectors):
		return model.LabelPerson
	default:
		return model.LabelMisc
	}
}

func isAcronym(word string) bool {
	letters := strings.ReplaceAll(word, ".", "")
	if len(letters) < 2 || len(letters) > 6 {
		return false
	}
	for _, r := range letters {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func containsAny(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] || set[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

// findNounChunks returns noun-phrase-like runs in order
func findNounChunks(tokens []token) []string {
	var chunks []string
	var current []token

	flush := func() {
		if len(current) == 0 {
			return
		}
		// A chunk of only determiners carries no content
		content := false
		for _, t := range current {
			if !determiners[t.lower()] {
				content = true
				break
			}
		}
		if content {
			var words []string
			for _, t := range current {
				words = append(words, t.text)
			}
			chunks = append(chunks, strings.Join(words, " "))
		}
		current = nil
	}

	for _, t := range tokens {
		lower := t.lower()
		switch {
		case t.punct:
			flush()
		case pronouns[lower]:
			flush()
			chunks = append(chunks, t.text)
		case isVerbLike(t) || prepositions[lower] || conjunctions[lower] || adverbs[lower]:
			flush()
		case determiners[lower]:
			flush()
			current = append(current, t)
		default:
			current = append(current, t)
		}
	}
	flush()

	return chunks
}

func isVerbLike(t token) bool {
	lower := t.lower()
	if verbs[lower] {
		return true
	}
	// Lowercase past participles: "invented", "located"
	return !t.capitalized() && len(lower) > 4 && strings.HasSuffix(lower, "ed")
}
