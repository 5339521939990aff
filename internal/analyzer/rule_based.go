package analyzer

import (
	"context"
	"strings"

	"github.com/vitals-triage-server/internal/domain"
)

// keywordTier maps a set of symptom phrases to the base score assigned
// when any of them appears in the narrative.
type keywordTier struct {
	score    float64
	keywords []string
}

// RuleBasedAnalyzer scores symptom narratives by keyword matching. It is
// the analyzer for lite deployments and the documented fallback when no
// model endpoint is configured; scores are deliberately coarse.
type RuleBasedAnalyzer struct {
	tiers         []keywordTier
	fallbackScore float64
}

// NewRuleBasedAnalyzer creates a rule-based analyzer with the built-in
// keyword tiers. Tiers are checked most-severe first; the first tier with
// any match wins.
func NewRuleBasedAnalyzer() *RuleBasedAnalyzer {
	return &RuleBasedAnalyzer{
		tiers: []keywordTier{
			{
				score: 9.0,
				keywords: []string{
					"not breathing", "unconscious", "unresponsive", "severe bleeding",
					"choking", "seizure", "anaphylaxis", "overdose", "stroke",
					"heart attack",
				},
			},
			{
				score: 7.0,
				keywords: []string{
					"chest pain", "difficulty breathing", "shortness of breath",
					"severe pain", "deep cut", "broken bone", "concussion",
					"allergic reaction", "coughing blood", "high fever",
				},
			},
			{
				score: 4.5,
				keywords: []string{
					"persistent vomiting", "dehydration", "burn", "dizziness",
					"fainted", "abdominal pain", "migraine", "infection",
				},
			},
			{
				score: 2.0,
				keywords: []string{
					"minor cut", "sprain", "mild fever", "rash", "sore throat",
					"ear pain", "cold symptoms", "headache", "cough",
				},
			},
		},
		fallbackScore: 3.0,
	}
}

// Analyze scores the narrative against the keyword tiers. It never fails:
// an unmatched narrative gets the mid-low fallback score with no key
// symptoms, leaving classification to the caller.
func (a *RuleBasedAnalyzer) Analyze(_ context.Context, symptomText string) (*domain.SymptomAnalysis, error) {
	text := strings.ToLower(symptomText)

	for _, tier := range a.tiers {
		matched := make([]string, 0, 2)
		for _, keyword := range tier.keywords {
			if strings.Contains(text, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) > 0 {
			return &domain.SymptomAnalysis{
				BaseScore:   tier.score,
				KeySymptoms: matched,
				Model:       "rule-based",
			}, nil
		}
	}

	return &domain.SymptomAnalysis{
		BaseScore: a.fallbackScore,
		Model:     "rule-based",
	}, nil
}
