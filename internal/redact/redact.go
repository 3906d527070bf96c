// Package redact projects stored records onto their outbound shape.
package redact

import "github.com/orda-service/internal/model"

// Customer drops the password hash. CustomerView has no password field, so the
// result can be serialised anywhere without leaking credentials.
func Customer(c model.Customer) model.CustomerView {
	return model.CustomerView{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Email:      c.Email,
		Address:    c.Address,
	}
}

func Customers(cs []model.Customer) []model.CustomerView {
	views := make([]model.CustomerView, len(cs))
	for i, c := range cs {
		views[i] = Customer(c)
	}
	return views
}
