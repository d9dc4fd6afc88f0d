package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotationStatus enum constants
const (
	QuotationPending    = "pending"
	QuotationProcessing = "processing"
	QuotationCompleted  = "completed"
	QuotationCancelled  = "cancelled"
)

// DefaultCurrency applies when a line has no explicit currency
const DefaultCurrency = "EGP"

// QuotationRequest represents a client's request for pricing a set of items
type QuotationRequest struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestNumber       string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"request_number"`
	ClientID            *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Client              *Client         `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL;" json:"client,omitempty"`
	RequestDate         time.Time       `gorm:"not null" json:"request_date"`
	ExpiryDate          *time.Time      `json:"expiry_date"`
	Status              string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ResponsibleEmployee string          `gorm:"type:varchar(255)" json:"responsible_employee"`
	CustomRequestNumber string          `gorm:"type:varchar(100)" json:"custom_request_number"` // The client's own reference number
	Notes               string          `gorm:"type:text" json:"notes"`
	Items               []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedBy           uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`
}

// QuotationItem is one line of a quotation request
type QuotationItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item              *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	Currency          string          `gorm:"type:varchar(10);default:'EGP'" json:"currency"`
	SupplierID        *uuid.UUID      `gorm:"type:uuid" json:"supplier_id"`
	Supplier          *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	SupplierQuoteDate *time.Time      `json:"supplier_quote_date"`
	CreatedAt         time.Time       `json:"created_at"`
}
