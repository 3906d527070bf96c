package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/service"
)

func (h *Handler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Item", err)
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), req)
	if err != nil {
		fail(c, "Item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.items.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "Item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) GetItems(c *gin.Context) {
	items, err := h.items.GetItems(c.Request.Context())
	if err != nil {
		fail(c, "Item", err)
		return
	}

	if items == nil {
		items = []model.Item{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Item", err)
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, "Item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.items.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "Item", err)
		return
	}

	c.Status(http.StatusNoContent)
}
