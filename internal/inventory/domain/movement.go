package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind identifies one of the three journal kinds
type MovementKind string

const (
	MovementInward   MovementKind = "inward"
	MovementOutward  MovementKind = "outward"
	MovementTransfer MovementKind = "transfer"
)

// CodePrefix returns the single letter prefix of generated movement codes
func (k MovementKind) CodePrefix() string {
	switch k {
	case MovementInward:
		return "I"
	case MovementOutward:
		return "O"
	case MovementTransfer:
		return "T"
	default:
		return "X"
	}
}

// Inward types
const (
	InwardTypePurchase = "PURCHASE"
	InwardTypeTransfer = "TRANSFER"
	InwardTypeReturn   = "RETURN"
)

// InwardEntry is a goods receipt against one project
type InwardEntry struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Code         string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID    uint       `json:"project_id" gorm:"not null;index"`
	Type         string     `json:"type" gorm:"size:20;not null;default:'PURCHASE'"`
	InvoiceNo    string     `json:"invoice_no" gorm:"size:64"`
	InvoiceDate  *time.Time `json:"invoice_date,omitempty"`
	ReceivedDate time.Time  `json:"received_date"`
	SupplierName string     `json:"supplier_name" gorm:"size:255"`
	Remarks      string     `json:"remarks" gorm:"type:text"`
	Validated    bool       `json:"validated" gorm:"not null;default:false"`
	TransferID   *uint      `json:"transfer_id,omitempty" gorm:"index"`
	CreatedBy    uint       `json:"created_by" gorm:"not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Lines []InwardLine `json:"lines" gorm:"foreignKey:InwardID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (InwardEntry) TableName() string {
	return "inward_entries"
}

// InwardLine records ordered and received quantities of one material
type InwardLine struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	InwardID    uint            `json:"inward_id" gorm:"not null;index"`
	MaterialID  uint            `json:"material_id" gorm:"not null;index"`
	OrderedQty  decimal.Decimal `json:"ordered_qty" gorm:"type:numeric(18,3);not null;default:0"`
	ReceivedQty decimal.Decimal `json:"received_qty" gorm:"type:numeric(18,3);not null;default:0"`
}

// TableName specifies the table name
func (InwardLine) TableName() string {
	return "inward_lines"
}

// OutwardEntry is an issue of stock for consumption on one project
type OutwardEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID  uint      `json:"project_id" gorm:"not null;index"`
	IssueTo    string    `json:"issue_to" gorm:"size:255"`
	IssueDate  time.Time `json:"issue_date"`
	Remarks    string    `json:"remarks" gorm:"type:text"`
	Validated  bool      `json:"validated" gorm:"not null;default:false"`
	TransferID *uint     `json:"transfer_id,omitempty" gorm:"index"`
	CreatedBy  uint      `json:"created_by" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Lines []OutwardLine `json:"lines" gorm:"foreignKey:OutwardID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (OutwardEntry) TableName() string {
	return "outward_entries"
}

// OutwardLine records the issued quantity of one material
type OutwardLine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OutwardID  uint            `json:"outward_id" gorm:"not null;index"`
	MaterialID uint            `json:"material_id" gorm:"not null;index"`
	IssueQty   decimal.Decimal `json:"issue_qty" gorm:"type:numeric(18,3);not null;default:0"`
}

// TableName specifies the table name
func (OutwardLine) TableName() string {
	return "outward_lines"
}

// TransferEntry records the intent to move stock between projects or sites.
// The ledger effect is carried by the linked outward and inward entries.
type TransferEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	FromProjectID uint      `json:"from_project_id" gorm:"not null;index"`
	ToProjectID   uint      `json:"to_project_id" gorm:"not null;index"`
	FromSite      string    `json:"from_site" gorm:"size:255"`
	ToSite        string    `json:"to_site" gorm:"size:255"`
	TransferDate  time.Time `json:"transfer_date"`
	Remarks       string    `json:"remarks" gorm:"type:text"`
	OutwardID     *uint     `json:"outward_id,omitempty"`
	InwardID      *uint     `json:"inward_id,omitempty"`
	CreatedBy     uint      `json:"created_by" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Lines []TransferLine `json:"lines" gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (TransferEntry) TableName() string {
	return "transfer_entries"
}

// TransferLine records the moved quantity of one material
type TransferLine struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	TransferID  uint            `json:"transfer_id" gorm:"not null;index"`
	MaterialID  uint            `json:"material_id" gorm:"not null;index"`
	TransferQty decimal.Decimal `json:"transfer_qty" gorm:"type:numeric(18,3);not null;default:0"`
}

// TableName specifies the table name
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// Models lists every table owned by the ledger, in migration order
func Models() []any {
	return []any{
		&Project{},
		&ProjectMember{},
		&Material{},
		&Allocation{},
		&InwardEntry{},
		&InwardLine{},
		&OutwardEntry{},
		&OutwardLine{},
		&TransferEntry{},
		&TransferLine{},
	}
}
