package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit enum constants
const (
	UnitEach   = "Each"
	UnitPiece  = "Piece"
	UnitMeter  = "Meter"
	UnitCarton = "Carton"
	UnitFeet   = "Feet"
	UnitKit    = "Kit"
	UnitPacket = "Packet"
	UnitReel   = "Reel"
	UnitSet    = "Set"
)

// Units lists the accepted measurement units for items
var Units = []string{UnitEach, UnitPiece, UnitMeter, UnitCarton, UnitFeet, UnitKit, UnitPacket, UnitReel, UnitSet}

// Item represents a catalogued product or part that can be quoted and ordered.
// ItemNumber is the internal P-xxxxxx sequence; NormalizedPartNumber is the
// canonical form of the manufacturer part number used for duplicate lookups.
type Item struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemNumber           string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"item_number"`
	PartNumber           string         `gorm:"type:varchar(255)" json:"part_number"`
	NormalizedPartNumber string         `gorm:"type:varchar(255);index" json:"normalized_part_number"`
	LineItem             string         `gorm:"type:varchar(255)" json:"line_item"`
	Description          string         `gorm:"type:text;not null" json:"description"`
	Unit                 string         `gorm:"type:varchar(20);not null" json:"unit"`
	Category             string         `gorm:"type:varchar(100);index" json:"category"`
	Brand                string         `gorm:"type:varchar(100)" json:"brand"`
	CreatedBy            *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidUnit reports whether u is one of the accepted measurement units
func ValidUnit(u string) bool {
	for _, unit := range Units {
		if u == unit {
			return true
		}
	}
	return false
}
