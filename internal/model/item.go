package model

type Item struct {
	ItemID string  `json:"item_id" bson:"item_id"`
	Name   string  `json:"name" bson:"name"`
	Price  float64 `json:"price" bson:"price"`
	Stock  int     `json:"stock" bson:"stock"`
}
