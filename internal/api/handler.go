package api

import (
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/mw"
	"maintenance-orchestrator/internal/orchestrator"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	orch    *orchestrator.Orchestrator
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(o *orchestrator.Orchestrator, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		orch:    o,
		webpush: webpushOptions,
	}
}

// fail writes err as {"error", "kind", "details"} with the status of its kind.
func fail(c *gin.Context, err error) {
	e := apperr.From(err)
	_ = c.Error(err)

	message := e.Error()
	if e.Kind == apperr.KindInternal || e.Kind == apperr.KindUnknown {
		log.WithError(err).WithField("request_id", mw.GetRequestID(c)).Error("request failed")
		message = "internal server error"
	}

	body := gin.H{"error": message, "kind": e.Kind.String()}
	if e.Details != nil {
		body["details"] = e.Details
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// actorID reads the acting user from the X-Actor-ID header.
func actorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader(mw.ActorHeader), 10, 64)
	if err != nil || id <= 0 {
		fail(c, apperr.Validation("%s header must carry a positive user id", mw.ActorHeader))
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, apperr.Validation("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return false
	}
	return true
}

// actorAndID resolves the caller and the :id path parameter.
func actorAndID(c *gin.Context) (actor, id int64, ok bool) {
	if actor, ok = actorID(c); !ok {
		return 0, 0, false
	}
	if id, ok = pathID(c, "id"); !ok {
		return 0, 0, false
	}
	return actor, id, true
}

func respond(c *gin.Context, status int, body any, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
