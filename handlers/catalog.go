package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	catalogRepo "appointly/database/repository/catalog"
	"appointly/models"
	"appointly/utils"
)

// CatalogHandler manages services and booking policies.
type CatalogHandler struct {
	Repo  catalogRepo.CatalogRepository
	Cache *redis.Client
}

func NewCatalogHandler(repo catalogRepo.CatalogRepository, cache *redis.Client) *CatalogHandler {
	return &CatalogHandler{Repo: repo, Cache: cache}
}

// CreateServiceHandler publishes a new bookable service for the authenticated
// professional.
func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var req models.UpsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	svc := &models.Service{
		ID:              uuid.New().String(),
		ProfessionalID:  c.GetString("actorID"),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          active,
	}
	if err := h.Repo.CreateService(c.Request.Context(), svc); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create service", err.Error())
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// ListServicesHandler returns a professional's published services.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	svcs, err := h.Repo.GetServicesByProfessional(c.Request.Context(), c.Param("professionalID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": svcs})
}

// GetPolicyHandler returns a professional's booking policy (or the default).
func (h *CatalogHandler) GetPolicyHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	policy, err := h.Repo.GetPolicy(c.Request.Context(), professionalID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load policy", err.Error())
		return
	}
	if policy == nil {
		def := models.DefaultBookingPolicy(professionalID)
		policy = &def
	}
	c.JSON(http.StatusOK, policy)
}

// UpsertPolicyHandler replaces the authenticated professional's booking policy.
func (h *CatalogHandler) UpsertPolicyHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	if c.GetString("actorID") != professionalID {
		utils.JSONError(c, http.StatusForbidden, "not authorized", "only the owning professional may change the booking policy")
		return
	}

	var req models.UpsertPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	policy := models.BookingPolicy{
		ProfessionalID:  professionalID,
		BufferMinutes:   req.BufferMinutes,
		MinAdvanceHours: req.MinAdvanceHours,
		MaxAdvanceDays:  req.MaxAdvanceDays,
		AutoConfirm:     req.AutoConfirm,
	}
	if err := h.Repo.UpsertPolicy(c.Request.Context(), policy); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save policy", err.Error())
		return
	}
	// Buffer and window changes alter slot generation.
	utils.BumpSlotVersion(c.Request.Context(), h.Cache, professionalID)
	c.JSON(http.StatusOK, policy)
}
