package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GenerateDueRequests handles POST /api/jobs/generate-due-requests.
func (h *Handler) GenerateDueRequests(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	log.WithField("actor", actor).Info("manual schedule promotion triggered")
	res, err := h.orch.GenerateDueRequests(c.Request.Context())
	respond(c, http.StatusOK, res, err)
}

// AutoAssign handles POST /api/jobs/auto-assign.
func (h *Handler) AutoAssign(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	log.WithField("actor", actor).Info("manual auto-assignment triggered")
	res, err := h.orch.AutoAssignAll(c.Request.Context())
	respond(c, http.StatusOK, res, err)
}
