package model

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Route{},
		&Truck{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Complaint{},
		&PickupRequest{},
	}
}
