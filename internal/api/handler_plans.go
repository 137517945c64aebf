package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-orchestrator/internal/orchestrator"
)

// ApprovePlan handles POST /api/plans/:id/approve.
func (h *Handler) ApprovePlan(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	plan, err := h.orch.ApprovePlan(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, plan, err)
}

// RejectPlan handles POST /api/plans/:id/reject.
func (h *Handler) RejectPlan(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.RejectInput
	if !bindJSON(c, &in) {
		return
	}
	plan, err := h.orch.RejectPlan(c.Request.Context(), id, actor, in)
	respond(c, http.StatusOK, plan, err)
}

// UpdateTask handles PATCH /api/tasks/:id.
func (h *Handler) UpdateTask(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.TaskUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := h.orch.UpdateExecutionTask(c.Request.Context(), id, actor, in)
	respond(c, http.StatusOK, task, err)
}
