package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
)

type createProductRequest struct {
	PharmacyID      string         `json:"pharmacy_id"`
	MedicationCode  string         `json:"medication_code"`
	Name            string         `json:"name"`
	Concentration   float64        `json:"concentration"`
	FillVolume      float64        `json:"fill_volume"`
	UnitCost        float64        `json:"unit_cost"`
	UnitRetailPrice float64        `json:"unit_retail_price"`
	Active          *bool          `json:"active"`
	Metadata        map[string]any `json:"metadata"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateRequest{
		PharmacyID:      strings.TrimSpace(req.PharmacyID),
		MedicationCode:  strings.TrimSpace(req.MedicationCode),
		Name:            strings.TrimSpace(req.Name),
		Concentration:   req.Concentration,
		FillVolume:      req.FillVolume,
		UnitCost:        req.UnitCost,
		UnitRetailPrice: req.UnitRetailPrice,
		Active:          req.Active,
		Metadata:        req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		MedicationCode string `form:"medication"`
		State          string `form:"state"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code := strings.TrimSpace(query.MedicationCode)
	if code == "" {
		AbortWithError(c, newValidationError("medication_code", "invalid_medication", "invalid medication code"))
		return
	}

	state := strings.TrimSpace(query.State)
	var (
		resp []catalogdomain.Item
		err  error
	)
	if state == "" {
		resp, err = s.catalogSvc.List(c.Request.Context(), code)
	} else {
		resp, err = s.catalogSvc.ListForState(c.Request.Context(), code, state)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
