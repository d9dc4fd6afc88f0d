package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"

	ActionCreateClient = "CREATE_CLIENT"
	ActionUpdateClient = "UPDATE_CLIENT"
	ActionDeleteClient = "DELETE_CLIENT"

	ActionCreateSupplier = "CREATE_SUPPLIER"
	ActionUpdateSupplier = "UPDATE_SUPPLIER"
	ActionDeleteSupplier = "DELETE_SUPPLIER"

	ActionCreateItem = "CREATE_ITEM"
	ActionUpdateItem = "UPDATE_ITEM"
	ActionDeleteItem = "DELETE_ITEM"

	ActionCreateQuotation = "CREATE_QUOTATION"
	ActionUpdateQuotation = "UPDATE_QUOTATION"
	ActionDeleteQuotation = "DELETE_QUOTATION"

	ActionCreatePurchaseOrder = "CREATE_PURCHASE_ORDER"
	ActionUpdatePurchaseOrder = "UPDATE_PURCHASE_ORDER"
	ActionDeletePurchaseOrder = "DELETE_PURCHASE_ORDER"

	ActionCreateSupplierPricing = "CREATE_SUPPLIER_PRICING"
	ActionUpdateSupplierPricing = "UPDATE_SUPPLIER_PRICING"
	ActionDeleteSupplierPricing = "DELETE_SUPPLIER_PRICING"

	ActionCreateCustomerPricing  = "CREATE_CUSTOMER_PRICING"
	ActionApproveCustomerPricing = "APPROVE_CUSTOMER_PRICING"
	ActionRejectCustomerPricing  = "REJECT_CUSTOMER_PRICING"

	ActionCreateUser        = "CREATE_USER"
	ActionUpdateUser        = "UPDATE_USER"
	ActionDeleteUser        = "DELETE_USER"
	ActionUpdatePermissions = "UPDATE_PERMISSIONS"
	ActionResetPassword     = "RESET_PASSWORD"

	ActionExportData = "EXPORT_DATA"
)

// ActivityLog tracks who did what and when across the system
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully for system actions
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50);index" json:"entity_type"` // "quotation", "item", "purchase_order", ...
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details    string     `gorm:"type:text" json:"details"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
