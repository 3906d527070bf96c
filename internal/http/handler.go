package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/orda-service/internal/logger"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"github.com/orda-service/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	orders    *service.OrderService
	customers *service.CustomerService
	items     *service.ItemService
	keys      *service.KeyService
}

func NewHandler(orders *service.OrderService, customers *service.CustomerService, items *service.ItemService, keys *service.KeyService) *Handler {
	return &Handler{orders: orders, customers: customers, items: items, keys: keys}
}

// RegisterRoutes mounts the resource routes on api. resourceAuth guards
// everything except key generation, which is guarded by adminAuth. Either
// may be nil.
func (h *Handler) RegisterRoutes(api gin.IRouter, resourceAuth, adminAuth gin.HandlerFunc) {
	resources := api.Group("")
	if resourceAuth != nil {
		resources.Use(resourceAuth)
	}

	resources.GET("/orders", h.GetOrders)
	resources.POST("/orders", h.CreateOrder)
	resources.GET("/orders/:id", h.GetOrder)
	resources.PUT("/orders/:id", h.UpdateOrder)
	resources.DELETE("/orders/:id", h.DeleteOrder)
	resources.GET("/orders/:id/status", h.GetOrderStatus)
	resources.PUT("/orders/:id/status", h.UpdateOrderStatus)

	resources.GET("/customers", h.GetCustomers)
	resources.POST("/customers", h.CreateCustomer)
	resources.GET("/customers/:id", h.GetCustomer)
	resources.PUT("/customers/:id", h.UpdateCustomer)
	resources.DELETE("/customers/:id", h.DeleteCustomer)

	resources.GET("/items", h.GetItems)
	resources.POST("/items", h.CreateItem)
	resources.GET("/items/:id", h.GetItem)
	resources.PUT("/items/:id", h.UpdateItem)
	resources.DELETE("/items/:id", h.DeleteItem)

	keys := api.Group("/keys")
	if adminAuth != nil {
		keys.Use(adminAuth)
	}
	keys.POST("/generate", h.GenerateKey)
}

// bindPayload accepts only a non-empty JSON object. Field level checks are
// left to the services.
func bindPayload(c *gin.Context, req any) error {
	body, err := c.GetRawData()
	if err != nil {
		return service.NewValidationError("Invalid JSON payload", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return service.NewValidationError("No data provided", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return service.NewValidationError("Invalid JSON payload", err)
	}
	if len(fields) == 0 {
		return service.NewValidationError("No data provided", nil)
	}

	if err := binding.JSON.BindBody(body, req); err != nil {
		return service.NewValidationError("Invalid JSON payload", err)
	}
	return nil
}

// fail maps service errors onto status codes. entity names the resource in
// not found messages, e.g. "Order".
func fail(c *gin.Context, entity string, err error) {
	log := logger.FromContext(c.Request.Context())

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Warn("invalid request", zap.String("message", ve.Message))
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
	case errors.Is(err, repo.ErrNotFound):
		log.Warn(entity+" not found", zap.String("id", c.Param("id")))
		c.JSON(http.StatusNotFound, gin.H{"message": entity + " not found"})
	case errors.Is(err, repo.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": entity + " already exists"})
	default:
		log.Error("request failed", zap.String("entity", entity), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Order", err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.orders.GetOrders(c.Request.Context())
	if err != nil {
		fail(c, "Order", err)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Order", err)
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (h *Handler) GetOrderStatus(c *gin.Context) {
	status, err := h.orders.GetOrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Order", err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, "Order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}
