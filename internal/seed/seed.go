// Package seed loads the sample data set used for demos and local
// development.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

var Customers = []model.Customer{
	{CustomerID: "501", Name: "John Doe", Email: "john.doe@example.com", Address: "123 Elm St, Somewhere, USA"},
	{CustomerID: "502", Name: "Jane Smith", Email: "jane.smith@example.com", Address: "456 Oak St, Anytown, USA"},
}

var Orders = []model.Order{
	{
		OrderID:    "1001",
		CustomerID: "501",
		Items: []model.OrderItem{
			{ItemID: "101", Quantity: 2, Price: 25.50},
			{ItemID: "105", Quantity: 1, Price: 5.75},
		},
		Total:  56.75,
		Date:   "2024-04-15",
		Status: "Shipped",
	},
	{
		OrderID:    "1002",
		CustomerID: "502",
		Items: []model.OrderItem{
			{ItemID: "103", Quantity: 1, Price: 15.00},
		},
		Total:  15.00,
		Date:   "2024-04-16",
		Status: "Pending",
	},
}

var Items = []model.Item{
	{ItemID: "101", Name: "Widget A", Price: 25.50, Stock: 50},
	{ItemID: "103", Name: "Widget C", Price: 15.00, Stock: 35},
	{ItemID: "105", Name: "Widget E", Price: 5.75, Stock: 100},
}

// Result counts documents written and documents that were already present.
type Result struct {
	Inserted int
	Skipped  int
}

// Load writes the sample data into store. Documents that already exist are
// left untouched, so Load can be run repeatedly.
func Load(ctx context.Context, store repo.Store, log *zap.Logger) (Result, error) {
	var res Result

	insert := func(coll repo.Collection, name, id string, doc any) error {
		err := coll.Insert(ctx, id, doc)
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, repo.ErrConflict):
			log.Info("seed document exists, skipping", zap.String("collection", name), zap.String("id", id))
			res.Skipped++
		default:
			return fmt.Errorf("seed %s %s: %w", name, id, err)
		}
		return nil
	}

	customers := store.Collection(repo.CustomersCollection, "customer_id")
	for _, c := range Customers {
		if err := insert(customers, repo.CustomersCollection, c.CustomerID, c); err != nil {
			return res, err
		}
	}

	orders := store.Collection(repo.OrdersCollection, "order_id")
	for _, o := range Orders {
		if err := insert(orders, repo.OrdersCollection, o.OrderID, o); err != nil {
			return res, err
		}
	}

	items := store.Collection(repo.ItemsCollection, "item_id")
	for _, i := range Items {
		if err := insert(items, repo.ItemsCollection, i.ItemID, i); err != nil {
			return res, err
		}
	}

	return res, nil
}
