package extract

import (
	"context"
	"reflect"
	"testing"
)

func TestRuleAnalyzer_Sentences(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two simple sentences",
			text: "The Earth is flat. Water boils at 100 degrees.",
			want: []string{"The Earth is flat.", "Water boils at 100 degrees."},
		},
		{
			name: "title abbreviation does not split",
			text: "Dr. Smith arrived. He left.",
			want: []string{"Dr. Smith arrived.", "He left."},
		},
		{
			name: "abbreviation followed by lowercase word",
			text: "The U.S. is large.",
			want: []string{"The U.S. is large."},
		},
		{
			name: "abbreviation ending a sentence",
			text: "I live in the U.S. The weather is nice.",
			want: []string{"I live in the U.S.", "The weather is nice."},
		},
		{
			name: "initials",
			text: "J. R. R. Tolkien wrote books.",
			want: []string{"J. R. R. Tolkien wrote books."},
		},
		{
			name: "middle initial",
			text: "John F. Kennedy was president. He was popular.",
			want: []string{"John F. Kennedy was president.", "He was popular."},
		},
		{
			name: "initial after preposition",
			text: "The book was written by J. Rowling in Scotland.",
			want: []string{"The book was written by J. Rowling in Scotland."},
		},
		{
			name: "roman numeral ends sentence",
			text: "He fought in World War I. Then he went home.",
			want: []string{"He fought in World War I.", "Then he went home."},
		},
		{
			name: "letter after lowercase word ends sentence",
			text: "The best vitamin is vitamin C. It helps immunity.",
			want: []string{"The best vitamin is vitamin C.", "It helps immunity."},
		},
		{
			name: "letter followed by capitalized noun",
			text: "Take vitamin D. Sunlight also helps.",
			want: []string{"Take vitamin D.", "Sunlight also helps."},
		},
		{
			name: "initial followed by lowercase word",
			text: "The bacterium E. coli is common.",
			want: []string{"The bacterium E. coli is common."},
		},
		{
			name: "mixed terminators",
			text: "Is it true?! Yes.",
			want: []string{"Is it true?!", "Yes."},
		},
		{
			name: "closing quote stays with sentence",
			text: `He said "stop." Then he left.`,
			want: []string{`He said "stop."`, "Then he left."},
		},
		{
			name: "decimal number",
			text: "Version 2.5 was released.",
			want: []string{"Version 2.5 was released."},
		},
		{
			name: "paragraph break without punctuation",
			text: "First paragraph\n\nSecond paragraph",
			want: []string{"First paragraph", "Second paragraph"},
		},
		{
			name: "single newline joins lines",
			text: "First part\r\nsecond part.",
			want: []string{"First part second part."},
		},
		{
			name: "trailing text without terminator",
			text: "Paris is in France. Berlin is in Germany",
			want: []string{"Paris is in France.", "Berlin is in Germany"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analyzer.Sentences(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q)\n got: %q\nwant: %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestRuleAnalyzer_SentencesEmpty(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	for _, text := range []string{"", "   ", "\n\n\t"} {
		got, err := analyzer.Sentences(context.Background(), text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no sentences for %q, got %q", text, got)
		}
	}
}
