// Package model defines the quiz bowl domain types shared by the generation
// pipeline and the packet stores.
package model

import (
	"regexp"
	"strings"
)

// Tossup is a single pyramidal question/answer pair. The answer follows the
// NAQT answer-line grammar: primary answer, optional bracketed alternates,
// optional parenthetical clarification.
type Tossup struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BonusPart is one of the three independently answerable parts of a Bonus.
type BonusPart struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Bonus is a themed set of three parts sharing a preamble.
type Bonus struct {
	Preamble string      `json:"preamble"`
	Parts    []BonusPart `json:"parts"`
}

// Packet is a finalized, ordered set of tossups and bonuses. It is fully
// populated before being handed to a PacketStore and never mutated after.
type Packet struct {
	Name    string   `json:"name"`
	Tossups []Tossup `json:"tossups"`
	Bonuses []Bonus  `json:"bonuses,omitempty"`
}

// AnswerText collects every answer line used in the packet, tossups first.
// Callers use this to exclude already-consumed answers from new generations.
func (p *Packet) AnswerText() []string {
	var answers []string
	for _, t := range p.Tossups {
		answers = append(answers, t.Answer)
	}
	for _, b := range p.Bonuses {
		for _, part := range b.Parts {
			answers = append(answers, part.Answer)
		}
	}
	return answers
}

var (
	answerMarkerRe = regexp.MustCompile(`(?i)^\s*ANSWER:\s*`)
	alternatesRe   = regexp.MustCompile(`\[.*?\]`)
	clarifierRe    = regexp.MustCompile(`\(.*?\)`)
)

// MainAnswer strips the leading answer-line marker, bracketed alternates and
// parenthetical clarifications from an answer line, leaving the primary
// answer text.
func MainAnswer(answerLine string) string {
	s := answerMarkerRe.ReplaceAllString(answerLine, "")
	s = alternatesRe.ReplaceAllString(s, "")
	s = clarifierRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormalizeAnswer is the canonical form used for uniqueness and
// cross-reference checks: the main answer, case-folded.
func NormalizeAnswer(answerLine string) string {
	return strings.ToLower(MainAnswer(answerLine))
}
