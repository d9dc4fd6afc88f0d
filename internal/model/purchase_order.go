package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderStatus enum constants
const (
	POPending   = "pending"
	POConfirmed = "confirmed"
	PODelivered = "delivered"
	POInvoiced  = "invoiced"
)

// PurchaseOrder represents an order issued against a completed quotation
type PurchaseOrder struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONumber       string              `gorm:"type:varchar(30);uniqueIndex;not null" json:"po_number"`
	QuotationID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Quotation      *QuotationRequest   `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`
	PODate         time.Time           `gorm:"not null" json:"po_date"`
	Status         string              `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalValue     decimal.Decimal     `gorm:"type:decimal(18,2);default:0" json:"total_value"`
	DeliveryStatus bool                `gorm:"default:false" json:"delivery_status"`
	InvoiceIssued  bool                `gorm:"default:false" json:"invoice_issued"`
	Items          []PurchaseOrderItem `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedBy      uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`
}

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	POID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"po_id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Currency   string          `gorm:"type:varchar(10);default:'EGP'" json:"currency"`
	SupplierID *uuid.UUID      `gorm:"type:uuid" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
