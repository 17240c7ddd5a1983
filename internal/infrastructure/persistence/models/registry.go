package models

// All returns every persistence model, in dependency order
func All() []any {
	return []any{
		&TenantModel{},
		&UserModel{},
		&PermissionOverrideModel{},
		&CustomerModel{},
		&InvoiceModel{},
		&InvoiceLineModel{},
		&BOQItemModel{},
		&EmployeeModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderLineModel{},
		&PointsEntryModel{},
	}
}
