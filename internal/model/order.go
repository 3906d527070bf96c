package model

type Order struct {
	OrderID    string      `json:"order_id" bson:"order_id"`
	CustomerID string      `json:"customer_id" bson:"customer_id"`
	Items      []OrderItem `json:"items" bson:"items"`
	Total      float64     `json:"total" bson:"total"`
	Date       string      `json:"date" bson:"date"`
	Status     string      `json:"status" bson:"status"`
}

type OrderItem struct {
	ItemID   string  `json:"item_id" bson:"item_id"`
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

type OrderStatus struct {
	Status string `json:"status"`
}
