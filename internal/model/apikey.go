package model

type APIKey struct {
	KeyID      string `json:"key_id" bson:"key_id"`
	Key        string `json:"key" bson:"key"`
	Active     bool   `json:"active" bson:"active"`
	CustomerID string `json:"customer_id" bson:"customer_id"`
}
