package authz

// Section identifies a navigable application area. Sections are a derived
// view over read grants, never a second hand-maintained table.
type Section string

const (
	SectionQuotations     Section = "quotations"
	SectionItems          Section = "items"
	SectionPurchaseOrders Section = "purchase-orders"
	SectionClients        Section = "clients"
	SectionSuppliers      Section = "suppliers"
	SectionUsers          Section = "users"
	SectionReports        Section = "reports"
	SectionSettings       Section = "settings"
)

var sectionByResource = map[Resource]Section{
	ResourceQuotations:     SectionQuotations,
	ResourceItems:          SectionItems,
	ResourcePurchaseOrders: SectionPurchaseOrders,
	ResourceClients:        SectionClients,
	ResourceSuppliers:      SectionSuppliers,
	ResourceUsers:          SectionUsers,
	ResourceReports:        SectionReports,
	ResourceSystemSettings: SectionSettings,
}

// Sections returns the application sections the role may navigate to: exactly
// the resources the role can read, in resource declaration order.
func (t Table) Sections(role Role) ([]Section, error) {
	var sections []Section
	for _, resource := range Resources() {
		ok, err := t.CanRead(role, resource)
		if err != nil {
			return nil, err
		}
		if ok {
			sections = append(sections, sectionByResource[resource])
		}
	}
	return sections, nil
}
