package model

// Claim represents a sentence extracted from user input, treated as a factual assertion
type Claim struct {
	Text  string `json:"text"`  // The sentence itself, trimmed
	Index int    `json:"index"` // Sentence index in source (0-based)
}

// EntityLabel categorizes a named entity (spaCy-compatible label set)
type EntityLabel string

const (
	LabelPerson    EntityLabel = "PERSON"      // People, including fictional
	LabelOrg       EntityLabel = "ORG"         // Companies, agencies, institutions
	LabelGPE       EntityLabel = "GPE"         // Countries, cities, states
	LabelLoc       EntityLabel = "LOC"         // Non-GPE locations: planets, mountains, rivers
	LabelFac       EntityLabel = "FAC"         // Buildings, bridges, airports
	LabelEvent     EntityLabel = "EVENT"       // Named wars, battles, sports events
	LabelWorkOfArt EntityLabel = "WORK_OF_ART" // Titles of books, songs, paintings
	LabelMisc      EntityLabel = "MISC"        // Capitalized span with no better label
)

// DefaultEntityLabels are the entity types tried as lookup candidates
func DefaultEntityLabels() []string {
	return []string{
		string(LabelPerson),
		string(LabelOrg),
		string(LabelGPE),
		string(LabelEvent),
		string(LabelWorkOfArt),
	}
}

// Entity is a named-entity span detected in a claim
type Entity struct {
	Text  string      `json:"text"`
	Label EntityLabel `json:"label"`
}

// Analysis holds the linguistic annotations of a single claim
type Analysis struct {
	Entities   []Entity `json:"entities"`
	NounChunks []string `json:"noun_chunks"`
}
