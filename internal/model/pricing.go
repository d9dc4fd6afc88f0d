package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierPricingStatus enum constants
const (
	PricingActive     = "active"
	PricingExpired    = "expired"
	PricingSuperseded = "superseded"
)

// CustomerPricingStatus enum constants
const (
	CustomerPricingPending  = "pending"
	CustomerPricingApproved = "approved"
	CustomerPricingRejected = "rejected"
)

// PriceType enum constants for history records
const (
	PriceTypeSupplier = "supplier"
	PriceTypeCustomer = "customer"
)

// SupplierPricing is a price quoted by a supplier for one item
type SupplierPricing struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item                 *Item           `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE;" json:"item,omitempty"`
	SupplierID           *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier             *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL;" json:"supplier,omitempty"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Currency             string          `gorm:"type:varchar(10);default:'EGP';not null" json:"currency"`
	PriceReceivedDate    time.Time       `gorm:"not null" json:"price_received_date"`
	ValidityPeriod       int             `json:"validity_period"` // days
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	DeliveryTime         int             `json:"delivery_time"` // days
	PaymentTerms         string          `gorm:"type:text" json:"payment_terms"`
	Notes                string          `gorm:"type:text" json:"notes"`
	Status               string          `gorm:"type:varchar(20);default:'active';not null;index" json:"status"`
	QuotationRequestID   *uuid.UUID      `gorm:"type:uuid" json:"quotation_request_id"`
	PurchaseOrderID      *uuid.UUID      `gorm:"type:uuid" json:"purchase_order_id"`
	IsSelected           bool            `gorm:"default:false" json:"is_selected"` // Whether this price was selected for a PO
	CreatedBy            uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// CustomerPricing is the selling price offered to a client, derived from a
// supplier cost plus a profit margin, subject to approval
type CustomerPricing struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID       *uuid.UUID       `gorm:"type:uuid;index" json:"quotation_id"`
	ItemID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	Item              *Item            `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE;" json:"item,omitempty"`
	SupplierPricingID *uuid.UUID       `gorm:"type:uuid" json:"supplier_pricing_id"`
	SupplierPricing   *SupplierPricing `gorm:"foreignKey:SupplierPricingID" json:"supplier_pricing,omitempty"`
	CostPrice         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	ProfitMargin      decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"profit_margin"` // percent
	SellingPrice      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	Currency          string           `gorm:"type:varchar(10);default:'EGP';not null" json:"currency"`
	Quantity          int              `gorm:"not null" json:"quantity"`
	TotalAmount       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes             string           `gorm:"type:text" json:"notes"`
	Status            string           `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"`
	ApprovedBy        *uuid.UUID       `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt        *time.Time       `json:"approved_at"`
	CreatedBy         uuid.UUID        `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// PricingHistory records every price change for an item, supplier or customer side
type PricingHistory struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	PriceType    string           `gorm:"type:varchar(20);not null" json:"price_type"` // supplier, customer
	ReferenceID  uuid.UUID        `gorm:"type:uuid;not null" json:"reference_id"`
	OldPrice     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"old_price"`
	NewPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"new_price"`
	ChangeReason string           `gorm:"type:text" json:"change_reason"`
	ChangedBy    uuid.UUID        `gorm:"type:uuid;not null" json:"changed_by"`
	CreatedAt    time.Time        `json:"created_at"`
}
