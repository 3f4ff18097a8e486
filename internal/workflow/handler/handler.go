// Package handler exposes the workflow service over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/workflow"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/middleware"
)

type commitRequest struct {
	ID string `json:"id"`
}

func (r commitRequest) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.ID, validation.Required))
}

type exportRequest struct {
	ID       string   `json:"id"`
	Locales  []string `json:"locales"`
	WidgetID string   `json:"widgetId,omitempty"`
}

func (r exportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Locales, validation.Required, validation.Each(validation.Required)),
	)
}

type submitRequest struct {
	IDs []string `json:"ids"`
}

func (r submitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Each(validation.Required)),
	)
}

// Handler serves /workflow routes.
type Handler struct {
	svc *workflow.Service
	log *logger.Logger
}

func NewHandler(svc *workflow.Service) *Handler {
	return &Handler{svc: svc, log: logger.With("http")}
}

// Register mounts the routes under rg/workflow. Every route requires auth; anonymous
// callers see 404.
func (h *Handler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	w := rg.Group("/workflow", auth)
	w.POST("/commit", h.Commit)
	w.POST("/export", h.Export)
	w.POST("/force-export", h.ForceExport)
	w.POST("/force-export-widget", h.ForceExportWidget)
	w.GET("/live", h.GetLive)
	w.POST("/submit", h.Submit)
	w.POST("/dismiss", h.Dismiss)
	w.GET("/diff", h.Diff)
	w.GET("/history", h.History)
	w.GET("/commits/:id", h.GetCommit)
	w.POST("/related-unexported", h.RelatedUnexported)
	w.GET("/review", h.Review)
	w.GET("/locales", h.Locales)
}

// bind decodes and validates a JSON body, answering 400 on failure.
func bind(c *gin.Context, req validation.Validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, workflow.ErrNotDraft), errors.Is(err, workflow.ErrUnknownLocale):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		h.log.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"status": "error", "error": msg})
}

func actorCtx(c *gin.Context) *gin.Context {
	if actor := c.GetString(middleware.ActorKey); actor != "" {
		c.Request = c.Request.WithContext(workflow.WithActor(c.Request.Context(), actor))
	}
	return c
}

func batch(c *gin.Context, res workflow.Result) {
	success := res.Succeeded
	if success == nil {
		success = []string{}
	}
	failed := res.Failed
	if failed == nil {
		failed = []workflow.Failure{}
	}
	body := gin.H{"status": "ok", "success": success, "errors": failed}
	if len(res.Warnings) > 0 {
		body["warnings"] = res.Warnings
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) Commit(c *gin.Context) {
	var req commitRequest
	if !bind(c, &req) {
		return
	}
	ctx := actorCtx(c).Request.Context()
	cm, err := h.svc.Commit(ctx, req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "commit": cm.Summary()})
}

func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.PropagateCommit(actorCtx(c).Request.Context(), req.ID, req.Locales)
	if err != nil {
		h.fail(c, err)
		return
	}
	batch(c, res)
}

func (h *Handler) ForceExport(c *gin.Context) {
	var req exportRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.ForcePropagate(actorCtx(c).Request.Context(), req.ID, req.Locales)
	if err != nil {
		h.fail(c, err)
		return
	}
	batch(c, res)
}

func (h *Handler) ForceExportWidget(c *gin.Context) {
	var req exportRequest
	if !bind(c, &req) {
		return
	}
	if err := validation.Validate(req.WidgetID, validation.Required); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "widgetId: " + err.Error()})
		return
	}
	res, err := h.svc.ForcePropagateNode(actorCtx(c).Request.Context(), req.ID, req.WidgetID, req.Locales)
	if err != nil {
		h.fail(c, err)
		return
	}
	batch(c, res)
}

func (h *Handler) GetLive(c *gin.Context) {
	guid, loc := c.Query("guid"), c.Query("locale")
	if err := (validation.Errors{
		"guid":   validation.Validate(guid, validation.Required),
		"locale": validation.Validate(loc, validation.Required),
	}).Filter(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	toDraft, _ := strconv.ParseBool(c.Query("resolveRelationshipsToDraft"))
	d, err := h.svc.GetLive(c.Request.Context(), guid, loc, toDraft)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "doc": d.Tree()})
}

func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.Submit(actorCtx(c).Request.Context(), req.IDs); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Dismiss(c *gin.Context) {
	var req commitRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.Dismiss(c.Request.Context(), req.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Diff(c *gin.Context) {
	id, commitID := c.Query("id"), c.Query("commitId")
	if id == "" && commitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "id or commitId is required"})
		return
	}
	d, err := h.svc.DiffForPreview(c.Request.Context(), id, commitID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "diff": d})
}

func (h *Handler) History(c *gin.Context) {
	id := c.Query("id")
	if err := validation.Validate(id, validation.Required); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "id: " + err.Error()})
		return
	}
	list, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "commits": list})
}

func (h *Handler) GetCommit(c *gin.Context) {
	cm, err := h.svc.GetCommit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "commit": cm})
}

func (h *Handler) RelatedUnexported(c *gin.Context) {
	var req exportRequest
	if !bind(c, &req) {
		return
	}
	ids, err := h.svc.RelatedUnexported(c.Request.Context(), req.ID, req.Locales)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "commitIds": ids})
}

// Review renders a commit (commitId) or the pending changes of a draft (id).
func (h *Handler) Review(c *gin.Context) {
	var (
		out string
		err error
	)
	switch {
	case c.Query("commitId") != "":
		out, err = h.svc.Preview(c.Request.Context(), c.Query("commitId"))
	case c.Query("id") != "":
		out, err = h.svc.PreviewDraft(c.Request.Context(), c.Query("id"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "id or commitId is required"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "preview": out})
}

func (h *Handler) Locales(c *gin.Context) {
	reg := h.svc.Locales()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "default": reg.Default(), "locales": reg.Nested()})
}
