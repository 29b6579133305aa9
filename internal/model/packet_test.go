package model

import "testing"

func TestMainAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain",
			input: "ANSWER: Berthe Morisot",
			want:  "Berthe Morisot",
		},
		{
			name:  "lowercase_marker",
			input: "answer: the Doppler effect",
			want:  "the Doppler effect",
		},
		{
			name:  "bracketed_alternates",
			input: "ANSWER: Calvin cycle [or light-independent reactions]",
			want:  "Calvin cycle",
		},
		{
			name:  "parenthetical_clarifier",
			input: "ANSWER: RuBisCO (accept full enzyme name)",
			want:  "RuBisCO",
		},
		{
			name:  "alternates_and_clarifier",
			input: "ANSWER: Pericles [or Pericles, Prince of Tyre] (the play)",
			want:  "Pericles",
		},
		{
			name:  "no_marker",
			input: "the Vienna Circle",
			want:  "the Vienna Circle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MainAnswer(tt.input); got != tt.want {
				t.Errorf("MainAnswer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAnswer(t *testing.T) {
	got := NormalizeAnswer("ANSWER: The Rite of Spring [or Le Sacre du printemps]")
	if got != "the rite of spring" {
		t.Errorf("NormalizeAnswer = %q, want %q", got, "the rite of spring")
	}
}

func TestPacketAnswerText(t *testing.T) {
	p := &Packet{
		Tossups: []Tossup{{Answer: "ANSWER: alpha"}, {Answer: "ANSWER: beta"}},
		Bonuses: []Bonus{{
			Parts: []BonusPart{{Answer: "ANSWER: gamma"}, {Answer: "ANSWER: delta"}, {Answer: "ANSWER: epsilon"}},
		}},
	}
	answers := p.AnswerText()
	if len(answers) != 5 {
		t.Fatalf("got %d answers, want 5", len(answers))
	}
	if answers[0] != "ANSWER: alpha" || answers[4] != "ANSWER: epsilon" {
		t.Errorf("unexpected ordering: %v", answers)
	}
}
