package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
)

type createPharmacyRequest struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Active   *bool          `json:"active"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) CreatePharmacy(c *gin.Context) {
	var req createPharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pharmacySvc.CreatePharmacy(c.Request.Context(), pharmacydomain.CreatePharmacyRequest{
		Name:     strings.TrimSpace(req.Name),
		Slug:     strings.TrimSpace(req.Slug),
		Active:   req.Active,
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPharmacies(c *gin.Context) {
	resp, err := s.pharmacySvc.ListPharmacies(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShippingRules(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pharmacySvc.ListShippingRules(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type upsertShippingRuleRequest struct {
	PharmacyID string  `json:"pharmacy_id"`
	StateCode  string  `json:"state_code"`
	CanShip    *bool   `json:"can_ship"`
	Notes      *string `json:"notes"`
}

func (s *Server) UpsertShippingRule(c *gin.Context) {
	var req upsertShippingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.CanShip == nil {
		AbortWithError(c, newValidationError("can_ship", "invalid_can_ship", "can_ship is required"))
		return
	}

	resp, err := s.pharmacySvc.UpsertShippingRule(c.Request.Context(), pharmacydomain.UpsertRuleRequest{
		PharmacyID: strings.TrimSpace(req.PharmacyID),
		StateCode:  strings.TrimSpace(req.StateCode),
		CanShip:    *req.CanShip,
		Notes:      req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetShippingEligibility(c *gin.Context) {
	state := strings.TrimSpace(c.Query("state"))
	if state == "" {
		AbortWithError(c, newValidationError("state", "invalid_state", "invalid state"))
		return
	}

	resp, err := s.pharmacySvc.Eligibility(c.Request.Context(), state)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
