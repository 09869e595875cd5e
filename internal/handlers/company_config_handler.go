package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"shipping-engine/internal/models"
	"shipping-engine/internal/repository"
)

// CompanyConfigHandler handles HTTP requests for shipping company
// configuration
type CompanyConfigHandler struct {
	repo *repository.CompanyRepository
}

// NewCompanyConfigHandler creates a new company config handler
func NewCompanyConfigHandler(repo *repository.CompanyRepository) *CompanyConfigHandler {
	return &CompanyConfigHandler{repo: repo}
}

// ListCompanies handles GET /api/companies
func (h *CompanyConfigHandler) ListCompanies(c *gin.Context) {
	companies, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list shipping companies",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    companies,
	})
}

// GetCompany handles GET /api/companies/:id
func (h *CompanyConfigHandler) GetCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid company ID",
			Message: "ID must be a valid UUID",
		})
		return
	}

	company, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Shipping company not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    company,
	})
}

// CreateCompany handles POST /api/companies
func (h *CompanyConfigHandler) CreateCompany(c *gin.Context) {
	var request models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	company := request.ToModel()
	if err := h.repo.Create(c.Request.Context(), &company); err != nil {
		var configErr *models.ConfigurationError
		if errors.As(err, &configErr) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "Invalid carrier configuration",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create shipping company",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    company,
		Message: stringPtr("Shipping company created successfully"),
	})
}

// UpdateCompany handles PUT /api/companies/:id
// The request replaces the company configuration wholesale, sub-carriers
// included.
func (h *CompanyConfigHandler) UpdateCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid company ID",
			Message: "ID must be a valid UUID",
		})
		return
	}

	var request models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	company := request.ToModel()
	company.ID = id
	if err := h.repo.Update(c.Request.Context(), &company); err != nil {
		var configErr *models.ConfigurationError
		switch {
		case errors.As(err, &configErr):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "Invalid carrier configuration",
				Message: err.Error(),
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Shipping company not found",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to update shipping company",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    company,
		Message: stringPtr("Shipping company updated successfully"),
	})
}

// DeleteCompany handles DELETE /api/companies/:id
func (h *CompanyConfigHandler) DeleteCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid company ID",
			Message: "ID must be a valid UUID",
		})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete shipping company",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    nil,
		Message: stringPtr("Shipping company deleted successfully"),
	})
}
