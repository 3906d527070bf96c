package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/service"
)

func (h *Handler) GenerateKey(c *gin.Context) {
	var req service.GenerateKeyRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Key", err)
		return
	}

	key, err := h.keys.GenerateKey(c.Request.Context(), req)
	if err != nil {
		fail(c, "Key", err)
		return
	}

	c.JSON(http.StatusCreated, key)
}
