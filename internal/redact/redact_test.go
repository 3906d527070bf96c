package redact

import (
	"encoding/json"
	"testing"

	"github.com/orda-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerDropsPassword(t *testing.T) {
	stored := model.Customer{
		CustomerID: "c1",
		Name:       "John Doe",
		Email:      "john@example.com",
		Address:    "123 Elm St",
		Password:   "$2a$10$hash",
	}

	data, err := json.Marshal(Customer(stored))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "password")
	assert.Equal(t, "John Doe", fields["name"])
	assert.Equal(t, "c1", fields["customer_id"])
}

func TestCustomerWithoutPassword(t *testing.T) {
	view := Customer(model.Customer{CustomerID: "c2", Name: "Jane"})
	assert.Equal(t, model.CustomerView{CustomerID: "c2", Name: "Jane"}, view)
}

func TestCustomers(t *testing.T) {
	views := Customers([]model.Customer{
		{CustomerID: "a", Password: "x"},
		{CustomerID: "b", Password: "y"},
	})
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].CustomerID)
	assert.Equal(t, "b", views[1].CustomerID)

	assert.Empty(t, Customers(nil))
}
