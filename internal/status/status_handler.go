package status

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alizain-patel/shifts-online/internal/shared/apperror"
	"github.com/alizain-patel/shifts-online/internal/shared/response"
)

// Defaults are the configured fallbacks for omitted query parameters.
type Defaults struct {
	View        ViewMode
	Window      WindowMode
	PreferToday bool
}

type Handler struct {
	service  Service
	defaults Defaults
}

func NewHandler(service Service, defaults Defaults) *Handler {
	return &Handler{service: service, defaults: defaults}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetStatus(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}

	view, err := h.service.GetView(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view.Rows, view.Summary)
}

func (h *Handler) Refresh(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}

	view, err := h.service.Refresh(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view.Rows, view.Summary)
}

func (h *Handler) bindQuery(c *gin.Context) (Query, bool) {
	var req ViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return Query{}, false
	}

	q := Query{
		View:        h.defaults.View,
		Window:      h.defaults.Window,
		PreferToday: h.defaults.PreferToday,
	}
	if req.View != "" {
		q.View, _ = ResolveViewMode(req.View)
	}
	if req.Window != "" {
		q.Window, _ = ResolveWindowMode(req.Window)
	}
	if req.PreferToday != nil {
		q.PreferToday = *req.PreferToday
	}
	return q, true
}
