package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	"github.com/smallbiznis/doseplan/internal/titration"
)

type createMedicationRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Form            string `json:"form"`
	PeriodUnit      string `json:"period_unit"`
	TitrationPreset string `json:"titration_preset"`
	Active          *bool  `json:"active"`
}

func (s *Server) CreateMedication(c *gin.Context) {
	var req createMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicationSvc.Create(c.Request.Context(), medicationdomain.CreateRequest{
		Code:            strings.TrimSpace(req.Code),
		Name:            strings.TrimSpace(req.Name),
		Form:            medicationdomain.Form(strings.TrimSpace(req.Form)),
		PeriodUnit:      medicationdomain.PeriodUnit(strings.TrimSpace(req.PeriodUnit)),
		TitrationPreset: strings.TrimSpace(req.TitrationPreset),
		Active:          req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMedications(c *gin.Context) {
	resp, err := s.medicationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMedicationByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	resp, err := s.medicationSvc.GetByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetMedicationSchedulePreview materializes the medication's preset ladder for
// a requested duration without touching the catalog.
func (s *Server) GetMedicationSchedulePreview(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	medication, err := s.medicationSvc.GetByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	duration, err := strconv.Atoi(strings.TrimSpace(c.DefaultQuery("duration", "12")))
	if err != nil || duration < 1 {
		AbortWithError(c, newValidationError("duration", "invalid_duration", "invalid duration"))
		return
	}

	ladder, ok := titration.LadderByName(medication.TitrationPreset)
	if !ok {
		AbortWithError(c, medicationdomain.ErrInvalidPreset)
		return
	}

	schedule := titration.Standard(ladder, duration)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"preset":     medication.TitrationPreset,
		"duration":   duration,
		"schedule":   schedule,
		"total_dose": titration.TotalDose(schedule),
	}})
}
