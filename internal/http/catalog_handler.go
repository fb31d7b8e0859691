package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboard(c *gin.Context) {
	dash, err := h.deps.Contracts.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *Handler) listMaterials(c *gin.Context) {
	materials, err := h.deps.Materials.List(c.Request.Context(), queryBool(c, "available_only"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.deps.Users.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
