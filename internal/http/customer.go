package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/service"
)

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Customer", err)
		return
	}

	customer, err := h.customers.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		fail(c, "Customer", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "Customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) GetCustomers(c *gin.Context) {
	customers, err := h.customers.GetCustomers(c.Request.Context())
	if err != nil {
		fail(c, "Customer", err)
		return
	}

	if customers == nil {
		customers = []model.CustomerView{}
	}

	c.JSON(http.StatusOK, customers)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := bindPayload(c, &req); err != nil {
		fail(c, "Customer", err)
		return
	}

	customer, err := h.customers.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, "Customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "Customer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
