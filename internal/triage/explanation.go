package triage

import (
	"fmt"
	"strings"

	"github.com/vitals-triage-server/internal/domain"
)

// ExplanationBuilder produces the rationale strings consumed by clients
// and alerting. It never fabricates clinical claims: every sentence is
// templated from the urgency level, the findings list, and the key
// symptoms the analyzer reported.
type ExplanationBuilder struct{}

// NewExplanationBuilder creates an explanation builder.
func NewExplanationBuilder() *ExplanationBuilder {
	return &ExplanationBuilder{}
}

// BuildVitalsExplanation produces the vitals sentence, or "" when the
// contribution is zero. Callers distinguish "no vitals effect" from "no
// vitals supplied" via the orchestrator's VitalsSupplied flag, not this
// string.
func (b *ExplanationBuilder) BuildVitalsExplanation(contribution float64, findings []string) string {
	if contribution <= 0 || len(findings) == 0 {
		return ""
	}
	return fmt.Sprintf("Concerning vitals detected: %s. This increased the severity score by +%.1f points.",
		strings.Join(findings, ", "), contribution)
}

// BuildExplanation produces the general assessment rationale.
func (b *ExplanationBuilder) BuildExplanation(urgency domain.UrgencyLevel, keySymptoms, findings []string) string {
	var sb strings.Builder

	switch urgency {
	case domain.CRITICAL:
		sb.WriteString("Critical severity: seek emergency care immediately.")
	case domain.URGENT:
		sb.WriteString("Urgent severity: prompt medical evaluation is needed.")
	case domain.STANDARD:
		sb.WriteString("Standard severity: medical evaluation is recommended.")
	case domain.NON_URGENT:
		sb.WriteString("Non-urgent severity: monitor symptoms and seek care if they worsen.")
	default:
		sb.WriteString("Severity could not be categorized: seek medical advice.")
	}

	if len(keySymptoms) > 0 {
		sb.WriteString(fmt.Sprintf(" Assessment considered %d reported symptom(s): %s.",
			len(keySymptoms), strings.Join(keySymptoms, ", ")))
	}

	if len(findings) > 0 {
		sb.WriteString(fmt.Sprintf(" %d concerning vital sign finding(s) contributed to the score.", len(findings)))
	}

	return sb.String()
}
