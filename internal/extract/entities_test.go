package extract

import (
	"context"
	"reflect"
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestRuleAnalyzer_Entities(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	tests := []struct {
		claim string
		want  []model.Entity
	}{
		{
			claim: "Albert Einstein was born in Ulm.",
			want: []model.Entity{
				{Text: "Albert Einstein", Label: model.LabelPerson},
				{Text: "Ulm", Label: model.LabelGPE},
			},
		},
		{
			claim: "The Eiffel Tower is in Paris.",
			want: []model.Entity{
				{Text: "Eiffel Tower", Label: model.LabelFac},
				{Text: "Paris", Label: model.LabelGPE},
			},
		},
		{
			claim: "Dr. Smith works at Harvard University.",
			want: []model.Entity{
				{Text: "Smith", Label: model.LabelPerson},
				{Text: "Harvard University", Label: model.LabelOrg},
			},
		},
		{
			claim: `He wrote "War and Peace" in 1869.`,
			want: []model.Entity{
				{Text: "War and Peace", Label: model.LabelWorkOfArt},
			},
		},
		{
			claim: "Einstein's theory changed physics.",
			want: []model.Entity{
				{Text: "Einstein", Label: model.LabelMisc},
			},
		},
		{
			claim: "NASA landed on the Moon.",
			want: []model.Entity{
				{Text: "NASA", Label: model.LabelOrg},
				{Text: "Moon", Label: model.LabelLoc},
			},
		},
		{
			claim: "World War II ended in 1945.",
			want: []model.Entity{
				{Text: "World War II", Label: model.LabelEvent},
			},
		},
		{
			claim: "The United States of America declared independence.",
			want: []model.Entity{
				{Text: "United States of America", Label: model.LabelGPE},
			},
		},
		{
			claim: "water boils at 100 degrees.",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			analysis, err := analyzer.Analyze(context.Background(), tt.claim)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(analysis.Entities, tt.want) {
				t.Errorf("entities\n got: %+v\nwant: %+v", analysis.Entities, tt.want)
			}
		})
	}
}

func TestRuleAnalyzer_EntitiesDeduplicated(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	analysis, _ := analyzer.Analyze(context.Background(), "Paris is older than Rome, and Paris is larger.")
	if len(analysis.Entities) != 2 {
		t.Fatalf("expected 2 unique entities, got %+v", analysis.Entities)
	}
	if analysis.Entities[0].Text != "Paris" || analysis.Entities[1].Text != "Rome" {
		t.Errorf("unexpected order: %+v", analysis.Entities)
	}
}

func TestRuleAnalyzer_NounChunks(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	tests := []struct {
		claim string
		want  []string
	}{
		{
			claim: "The Earth is flat.",
			want:  []string{"The Earth", "flat"},
		},
		{
			claim: "Water boils at 100 degrees Celsius.",
			want:  []string{"Water", "100 degrees Celsius"},
		},
		{
			claim: "It was invented by him.",
			want:  []string{"It", "him"},
		},
		{
			claim: "the",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			analysis, err := analyzer.Analyze(context.Background(), tt.claim)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(analysis.NounChunks, tt.want) {
				t.Errorf("noun chunks\n got: %q\nwant: %q", analysis.NounChunks, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("The U.S. spent $1,000 on Einstein's well-known work.")

	var words []string
	for _, tok := range tokens {
		if !tok.punct {
			words = append(words, tok.text)
		}
	}

	want := []string{"The", "U.S.", "spent", "1,000", "on", "Einstein's", "well-known", "work"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("tokenize words\n got: %q\nwant: %q", words, want)
	}
}
