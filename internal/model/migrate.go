package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&WorkRole{},
		&Staff{},
		&Shift{},
		&SalaryRecord{},
		&Supplier{},
		&Fruit{},
		&FruitDelivery{},
		&OilExtraction{},
		&Expense{},
		&Asset{},
	}
}
