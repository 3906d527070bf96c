package model

// Customer is the stored form. Password holds the bcrypt hash and must never
// leave the service; outbound payloads use CustomerView.
type Customer struct {
	CustomerID string `json:"customer_id" bson:"customer_id"`
	Name       string `json:"name" bson:"name"`
	Email      string `json:"email" bson:"email"`
	Address    string `json:"address" bson:"address"`
	Password   string `json:"password,omitempty" bson:"password,omitempty"`
}

type CustomerView struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}
