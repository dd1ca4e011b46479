package status

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	st := r.Group("/status")
	{
		st.GET("", h.GetStatus)
		st.POST("/refresh", h.Refresh)
	}
}
