package authz

// defaultTable is the process-wide permission configuration. manager and
// it_admin carry identical grants; that is duplicated data, not a modeled
// hierarchy. Roles are flat. accounting is a read-mostly row for financial
// review. Changing any of this means a code change and a redeploy.
var defaultTable = Table{
	RoleManager: {
		ResourceQuotations:     {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true, ActionImport: true},
		ResourceItems:          {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true, ActionImport: true},
		ResourcePurchaseOrders: {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceClients:        {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceSuppliers:      {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceUsers:          {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
		ResourceReports:        {ActionRead: true, ActionExport: true},
		ResourceSystemSettings: {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	},
	RoleITAdmin: {
		ResourceQuotations:     {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true, ActionImport: true},
		ResourceItems:          {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true, ActionImport: true},
		ResourcePurchaseOrders: {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceClients:        {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceSuppliers:      {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionExport: true},
		ResourceUsers:          {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
		ResourceReports:        {ActionRead: true, ActionExport: true},
		ResourceSystemSettings: {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	},
	RoleDataEntry: {
		ResourceQuotations:     {ActionRead: true, ActionCreate: true, ActionUpdate: true},
		ResourceItems:          {ActionRead: true, ActionCreate: true, ActionUpdate: true},
		ResourcePurchaseOrders: {},
		ResourceClients:        {},
		ResourceSuppliers:      {},
		ResourceUsers:          {},
		ResourceReports:        {ActionRead: true},
		ResourceSystemSettings: {},
	},
	RolePurchasing: {
		ResourceQuotations:     {ActionRead: true, ActionUpdate: true, ActionExport: true},
		ResourceItems:          {ActionRead: true, ActionExport: true},
		ResourcePurchaseOrders: {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionExport: true},
		ResourceClients:        {ActionRead: true},
		ResourceSuppliers:      {ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionExport: true},
		ResourceUsers:          {},
		ResourceReports:        {ActionRead: true, ActionExport: true},
		ResourceSystemSettings: {},
	},
	RoleAccounting: {
		ResourceQuotations:     {ActionRead: true},
		ResourceItems:          {ActionRead: true},
		ResourcePurchaseOrders: {ActionRead: true},
		ResourceClients:        {ActionRead: true},
		ResourceSuppliers:      {ActionRead: true},
		ResourceUsers:          {},
		ResourceReports:        {ActionRead: true, ActionExport: true},
		ResourceSystemSettings: {},
	},
}

// Default returns the built-in permission table. The returned table is shared
// and read-only; callers must not mutate it.
func Default() Table {
	return defaultTable
}
