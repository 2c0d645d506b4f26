package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"appointly/models"
	"appointly/services/availability"
	"appointly/services/booking"
	"appointly/utils"
)

// AvailabilityHandler exposes the rule store and slot generation.
type AvailabilityHandler struct {
	Availability availability.Service
	Engine       booking.SchedulingEngine
}

func NewAvailabilityHandler(av availability.Service, engine booking.SchedulingEngine) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: av, Engine: engine}
}

// SetWeeklyRuleHandler replaces one weekday's availability for the
// authenticated professional.
func (h *AvailabilityHandler) SetWeeklyRuleHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	if c.GetString("actorID") != professionalID {
		utils.JSONError(c, http.StatusForbidden, "not authorized", "only the owning professional may change availability")
		return
	}

	var req models.SetWeeklyRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Availability.SetWeeklyRule(c.Request.Context(), professionalID, time.Weekday(req.DayOfWeek), req.Ranges); err != nil {
		utils.JSONError(c, statusForError(err), "failed to set weekly rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetExceptionHandler sets or clears a date override. Omitting ranges closes
// the whole date.
func (h *AvailabilityHandler) SetExceptionHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	if c.GetString("actorID") != professionalID {
		utils.JSONError(c, http.StatusForbidden, "not authorized", "only the owning professional may change availability")
		return
	}

	var req models.SetExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Availability.SetException(c.Request.Context(), professionalID, req.Date, req.Ranges); err != nil {
		utils.JSONError(c, statusForError(err), "failed to set exception", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEffectiveRangesHandler resolves the ranges in force on a date.
func (h *AvailabilityHandler) GetEffectiveRangesHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}

	ranges, err := h.Availability.GetEffectiveRanges(c.Request.Context(), professionalID, date)
	if err != nil {
		utils.JSONError(c, statusForError(err), "failed to resolve availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "ranges": ranges})
}

// GetSlotsHandler computes bookable slots for a professional/service over a
// date range. includeUnavailable=true also returns conflicted slots so the
// calendar can grey them out.
func (h *AvailabilityHandler) GetSlotsHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	serviceID := c.Query("serviceId")
	from := c.Query("from")
	to := c.Query("to")
	if serviceID == "" || from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "serviceId, from and to query parameters are required")
		return
	}
	includeUnavailable := c.Query("includeUnavailable") == "true"

	slots, err := h.Engine.GenerateSlots(c.Request.Context(), professionalID, serviceID, from, to, includeUnavailable)
	if err != nil {
		utils.JSONError(c, statusForError(err), "failed to generate slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
