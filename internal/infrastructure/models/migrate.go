package models

// All returns every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&Favorite{},
		&Listing{},
		&Order{},
		&PaymentIntent{},
		&Rating{},
		&Comment{},
		&Membership{},
		&MembershipAssignment{},
	}
}
