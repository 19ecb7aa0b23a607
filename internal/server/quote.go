package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
)

type createQuoteRequest struct {
	MedicationCode        string    `json:"medication_code"`
	DurationPeriods       int       `json:"duration_periods"`
	Mode                  string    `json:"mode"`
	CustomDoses           []float64 `json:"custom_doses"`
	StateCode             string    `json:"state_code"`
	SelectedConcentration *float64  `json:"selected_concentration"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Compute(c.Request.Context(), quotedomain.Request{
		MedicationCode:        strings.TrimSpace(req.MedicationCode),
		DurationPeriods:       req.DurationPeriods,
		Mode:                  quotedomain.Mode(strings.TrimSpace(req.Mode)),
		CustomDoses:           req.CustomDoses,
		StateCode:             strings.TrimSpace(req.StateCode),
		SelectedConcentration: req.SelectedConcentration,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
