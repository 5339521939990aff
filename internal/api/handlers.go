package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
	"github.com/vitals-triage-server/internal/feedback"
)

// AssessRequest is the wire request for POST /api/v1/triage/assess.
type AssessRequest struct {
	SymptomText string         `json:"symptomText" binding:"required"`
	Vitals      *VitalsPayload `json:"vitals,omitempty"`
}

// VitalsPayload is the wire form of a vitals reading. Blood pressure
// arrives as the conventional "systolic/diastolic" string and the
// timestamp as RFC 3339.
type VitalsPayload struct {
	HeartRate        *int     `json:"heartRate,omitempty"`
	BloodPressure    string   `json:"bloodPressure,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty"`
	TemperatureF     *float64 `json:"temperature,omitempty"`
	RespiratoryRate  *int     `json:"respiratoryRate,omitempty"`
	Timestamp        string   `json:"timestamp,omitempty"`
	DataQuality      *float64 `json:"dataQuality,omitempty"`
	Source           string   `json:"source,omitempty"`
}

// toReading converts the wire payload into the domain reading.
func (p *VitalsPayload) toReading() (*domain.VitalsReading, error) {
	reading := &domain.VitalsReading{
		HeartRate:        p.HeartRate,
		OxygenSaturation: p.OxygenSaturation,
		TemperatureF:     p.TemperatureF,
		RespiratoryRate:  p.RespiratoryRate,
		DataQuality:      1.0,
		Source:           domain.SOURCE_UNKNOWN,
	}

	if p.BloodPressure != "" {
		systolic, diastolic, err := domain.ParseBloodPressure(p.BloodPressure)
		if err != nil {
			return nil, err
		}
		reading.BloodPressureSystolic = &systolic
		reading.BloodPressureDiastolic = &diastolic
	}

	if p.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			return nil, errors.New("timestamp must be RFC 3339")
		}
		reading.Timestamp = ts
	}

	if p.DataQuality != nil {
		reading.DataQuality = *p.DataQuality
	}

	switch domain.VitalSource(p.Source) {
	case domain.SOURCE_WEARABLE, domain.SOURCE_MANUAL:
		reading.Source = domain.VitalSource(p.Source)
	}

	return reading, nil
}

// FeedbackRequest is the wire request for feedback submission. The
// suggested urgency is only consulted when no assessment repository is
// configured; the client received it in the assessment response and
// echoes it back so agreement tracking survives lite deployments.
type FeedbackRequest struct {
	ClinicianUrgency string `json:"clinicianUrgency" binding:"required"`
	SuggestedUrgency string `json:"suggestedUrgency,omitempty"`
	ClinicianID      string `json:"clinicianId,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// handleAssess runs one triage assessment.
func (s *Server) handleAssess(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "symptomText is required", nil)
		return
	}

	var reading *domain.VitalsReading
	if req.Vitals != nil {
		var err error
		reading, err = req.Vitals.toReading()
		if err != nil {
			s.writeError(c, http.StatusBadRequest, domain.ErrInvalidVitalsData, err.Error(), nil)
			return
		}
	}

	assessment, err := s.engine.Assess(c.Request.Context(), req.SymptomText, reading)
	if err != nil {
		s.writeEngineError(c, err)
		return
	}

	if s.repo != nil {
		// Persistence failures are logged, never surfaced: the caller
		// already has a valid assessment in hand.
		if saveErr := s.repo.Save(c.Request.Context(), assessment, req.SymptomText); saveErr != nil {
			s.logger.WithError(saveErr).WithField("assessment_id", assessment.ID).
				Error("Failed to persist assessment")
		}
	}

	if assessment.UrgencyLevel == domain.CRITICAL {
		s.alerts.PublishAlert(assessment)
	}

	c.JSON(http.StatusOK, assessment)
}

// handleGetAssessment retrieves a persisted assessment.
func (s *Server) handleGetAssessment(c *gin.Context) {
	if s.repo == nil {
		s.writeError(c, http.StatusServiceUnavailable, domain.ErrDatabaseError, "assessment persistence is not configured", nil)
		return
	}

	assessment, err := s.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(c, http.StatusNotFound, domain.ErrRecordNotFound, "assessment not found", nil)
			return
		}
		s.logger.WithError(err).Error("Failed to load assessment")
		s.writeError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "failed to load assessment", nil)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// handleListAssessments returns recent assessments, newest first.
func (s *Server) handleListAssessments(c *gin.Context) {
	if s.repo == nil {
		s.writeError(c, http.StatusServiceUnavailable, domain.ErrDatabaseError, "assessment persistence is not configured", nil)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "limit must be an integer in [1,500]", nil)
			return
		}
		limit = parsed
	}

	assessments, err := s.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list assessments")
		s.writeError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "failed to list assessments", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"count":       len(assessments),
	})
}

// handleSubmitFeedback records a clinician verdict on an assessment.
func (s *Server) handleSubmitFeedback(c *gin.Context) {
	if s.feedbackStore == nil {
		s.writeError(c, http.StatusServiceUnavailable, domain.ErrDatabaseError, "feedback storage is not configured", nil)
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "clinicianUrgency is required", nil)
		return
	}

	clinicianUrgency := domain.UrgencyLevel(req.ClinicianUrgency)
	if !clinicianUrgency.IsValid() {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "clinicianUrgency must be one of NON_URGENT, STANDARD, URGENT, CRITICAL", nil)
		return
	}

	suggested := domain.UrgencyLevel(req.SuggestedUrgency)
	if req.SuggestedUrgency != "" && !suggested.IsValid() {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "suggestedUrgency must be one of NON_URGENT, STANDARD, URGENT, CRITICAL", nil)
		return
	}

	assessmentID := c.Param("id")
	if s.repo != nil {
		assessment, err := s.repo.GetByID(c.Request.Context(), assessmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.writeError(c, http.StatusNotFound, domain.ErrRecordNotFound, "assessment not found", nil)
				return
			}
			s.logger.WithError(err).Error("Failed to load assessment for feedback")
			s.writeError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "failed to load assessment", nil)
			return
		}
		suggested = assessment.UrgencyLevel
	}

	fb := &feedback.TriageFeedback{
		AssessmentID:     assessmentID,
		SuggestedUrgency: suggested,
		ClinicianUrgency: clinicianUrgency,
		Agreed:           suggested == clinicianUrgency,
		ClinicianID:      req.ClinicianID,
		Notes:            req.Notes,
	}

	if err := s.feedbackStore.Save(c.Request.Context(), fb); err != nil {
		s.logger.WithError(err).Error("Failed to save feedback")
		s.writeError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "failed to save feedback", nil)
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// handleGetFeedback retrieves feedback for an assessment.
func (s *Server) handleGetFeedback(c *gin.Context) {
	if s.feedbackStore == nil {
		s.writeError(c, http.StatusServiceUnavailable, domain.ErrDatabaseError, "feedback storage is not configured", nil)
		return
	}

	fb, err := s.feedbackStore.Get(c.Request.Context(), c.Param("id"), c.Query("clinicianId"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to load feedback")
		s.writeError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "failed to load feedback", nil)
		return
	}
	if fb == nil {
		s.writeError(c, http.StatusNotFound, domain.ErrRecordNotFound, "feedback not found", nil)
		return
	}

	c.JSON(http.StatusOK, fb)
}

// writeEngineError maps engine errors to the documented response codes.
func (s *Server) writeEngineError(c *gin.Context, err error) {
	var te *domain.TriageError
	if !errors.As(err, &te) {
		s.logger.WithError(err).Error("Assessment failed")
		s.writeError(c, http.StatusInternalServerError, domain.ErrInternalServer, "assessment failed", nil)
		return
	}

	status := http.StatusInternalServerError
	switch te.Code {
	case domain.ErrInvalidInput:
		status = http.StatusBadRequest
	case domain.ErrAnalyzerUnavailable:
		status = http.StatusServiceUnavailable
	case domain.ErrInvalidBaseScore:
		status = http.StatusBadGateway
	}

	s.logger.WithFields(logrus.Fields{
		"code":  te.Code,
		"error": te.Message,
	}).Warn("Assessment rejected")

	s.writeError(c, status, te.Code, te.Message, nil)
}

// writeError emits the standardized error envelope.
func (s *Server) writeError(c *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"correlationId": c.GetString("correlation_id"),
	}
	if details != nil {
		body["error"].(gin.H)["details"] = details
	}
	c.JSON(status, body)
}
