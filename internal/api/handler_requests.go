package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-orchestrator/internal/orchestrator"
)

// CreateRequest handles POST /api/requests.
func (h *Handler) CreateRequest(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var in orchestrator.CreateRequestInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := h.orch.CreateInternalRequest(c.Request.Context(), actor, in)
	respond(c, http.StatusCreated, req, err)
}

// GetRequest handles GET /api/requests/:id.
func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.orch.GetRequest(c.Request.Context(), id)
	respond(c, http.StatusOK, detail, err)
}

// GetRequestRejections handles GET /api/requests/:id/rejections.
func (h *Handler) GetRequestRejections(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	records, err := h.orch.ListRequestRejections(c.Request.Context(), id)
	respond(c, http.StatusOK, records, err)
}

// AssignRequest handles POST /api/requests/:id/assign.
func (h *Handler) AssignRequest(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	a, err := h.orch.AssignOne(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, a, err)
}

// ConfirmAssignment handles POST /api/requests/:id/assignment/confirm.
func (h *Handler) ConfirmAssignment(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	a, err := h.orch.ConfirmAssignment(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, a, err)
}

// RejectAssignment handles POST /api/requests/:id/assignment/reject.
func (h *Handler) RejectAssignment(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.RejectInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := h.orch.RejectAssignment(c.Request.Context(), id, actor, in)
	respond(c, http.StatusOK, req, err)
}

// StartMaintenance handles POST /api/requests/:id/start.
func (h *Handler) StartMaintenance(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	req, err := h.orch.StartMaintenance(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, req, err)
}

// SubmitSurvey handles POST /api/requests/:id/survey.
func (h *Handler) SubmitSurvey(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.SurveyInput
	if !bindJSON(c, &in) {
		return
	}
	survey, err := h.orch.SubmitSurvey(c.Request.Context(), id, actor, in)
	respond(c, http.StatusCreated, survey, err)
}

// SubmitPlan handles POST /api/requests/:id/plan.
func (h *Handler) SubmitPlan(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.PlanInput
	if !bindJSON(c, &in) {
		return
	}
	plan, err := h.orch.SubmitPlan(c.Request.Context(), id, actor, in)
	respond(c, http.StatusCreated, plan, err)
}

// AcceptRequest handles POST /api/requests/:id/accept.
func (h *Handler) AcceptRequest(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	req, err := h.orch.AcceptRequest(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, req, err)
}

// RejectAcceptance handles POST /api/requests/:id/reject-acceptance.
func (h *Handler) RejectAcceptance(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var in orchestrator.RejectInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := h.orch.RejectAcceptance(c.Request.Context(), id, actor, in)
	respond(c, http.StatusOK, req, err)
}

// CancelRequest handles POST /api/requests/:id/cancel.
func (h *Handler) CancelRequest(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	req, err := h.orch.CancelRequest(c.Request.Context(), id, actor)
	respond(c, http.StatusOK, req, err)
}
