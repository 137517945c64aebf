package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"maintenance-orchestrator/internal/orchestrator"
)

// PutSubscription registers a browser for a technician's notices.
func (h *Handler) PutSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in orchestrator.SubscriptionInput
	if !bindJSON(c, &in) {
		return
	}
	_, err := h.orch.SaveSubscription(c.Request.Context(), id, in)
	respond(c, http.StatusCreated, nil, err)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
}

// DeleteSubscription stops pushing to a browser.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req deleteSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.orch.DeleteSubscription(c.Request.Context(), id, req.Endpoint)
	respond(c, http.StatusNoContent, nil, err)
}

// rawQueryParam reads a query value without URL-decoding it; push endpoints
// are stored exactly as the browser reported them.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription reports whether a browser is registered for the technician.
func (h *Handler) GetSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	endpoint, _ := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	sub, err := h.orch.GetSubscription(c.Request.Context(), id, endpoint)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"endpoint":     sub.Endpoint,
		"technicianId": sub.TechnicianID,
		"createdAt":    sub.CreatedAt,
	})
}

// GetVAPIDPublicKey returns the VAPID public key browsers subscribe with.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured", "kind": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
