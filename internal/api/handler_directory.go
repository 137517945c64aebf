package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/orchestrator"
)

// GetDevices handles GET /api/devices.
func (h *Handler) GetDevices(c *gin.Context) {
	devices, err := h.orch.ListDevices(c.Request.Context())
	respond(c, http.StatusOK, devices, err)
}

// GetTechnicians handles GET /api/technicians.
func (h *Handler) GetTechnicians(c *gin.Context) {
	technicians, err := h.orch.ListTechnicians(c.Request.Context())
	respond(c, http.StatusOK, technicians, err)
}

// ExpandAvailability handles POST /api/technicians/:id/availability/expand.
func (h *Handler) ExpandAvailability(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.ExpandAvailabilityInput
	if !bindJSON(c, &in) {
		return
	}
	slots, err := h.orch.ExpandAvailability(c.Request.Context(), id, actor, in)
	respond(c, http.StatusCreated, slots, err)
}

// GetRejections handles GET /api/rejections?subjectType=PLAN&subjectId=12.
func (h *Handler) GetRejections(c *gin.Context) {
	subjectID, err := strconv.ParseInt(c.Query("subjectId"), 10, 64)
	if err != nil || subjectID <= 0 {
		fail(c, apperr.Validation("subjectId must be a positive integer"))
		return
	}
	records, err := h.orch.ListRejections(c.Request.Context(), model.SubjectType(c.Query("subjectType")), subjectID)
	respond(c, http.StatusOK, records, err)
}
