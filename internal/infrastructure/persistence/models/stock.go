package models

import (
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
)

// RepStockModel is the materialized balance of one product held by one rep
type RepStockModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rep_stock_key,priority:1"`
	RepID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rep_stock_key,priority:2"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rep_stock_key,priority:3;index"`
	Quantity  int64     `gorm:"not null;default:0;check:chk_rep_stock_non_negative,quantity >= 0"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RepStockModel) TableName() string {
	return "rep_product_stocks"
}

// ToDomain converts the model to a domain Balance
func (m *RepStockModel) ToDomain() *stock.Balance {
	return &stock.Balance{
		ID:        m.ID,
		Key:       stock.Key{TenantID: m.TenantID, RepID: m.RepID, ProductID: m.ProductID},
		Quantity:  m.Quantity,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// RepStockModelFromDomain creates a model from a domain Balance
func RepStockModelFromDomain(b *stock.Balance) *RepStockModel {
	return &RepStockModel{
		ID:        b.ID,
		TenantID:  b.TenantID,
		RepID:     b.RepID,
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// StockLedgerModel is one append-only ledger row
type StockLedgerModel struct {
	ID                uuid.UUID    `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID    `gorm:"type:uuid;not null;index:idx_ledger_key,priority:1"`
	RepID             uuid.UUID    `gorm:"type:uuid;not null;index:idx_ledger_key,priority:2"`
	ProductID         uuid.UUID    `gorm:"type:uuid;not null;index:idx_ledger_key,priority:3"`
	QuantityChange    int64        `gorm:"not null"`
	Reason            stock.Reason `gorm:"type:varchar(200);not null"`
	ActorID           uuid.UUID    `gorm:"type:uuid;not null"`
	IncludeInAnalysis bool         `gorm:"not null;default:false"`
	ReportID          *uuid.UUID   `gorm:"type:uuid;index"`
	CreatedAt         time.Time    `gorm:"not null;index:idx_ledger_key,priority:4"`
}

// TableName returns the table name for GORM
func (StockLedgerModel) TableName() string {
	return "rep_stock_ledger"
}

// ToDomain converts the model to a domain LedgerEntry
func (m *StockLedgerModel) ToDomain() *stock.LedgerEntry {
	return &stock.LedgerEntry{
		ID:                m.ID,
		TenantID:          m.TenantID,
		RepID:             m.RepID,
		ProductID:         m.ProductID,
		QuantityChange:    m.QuantityChange,
		Reason:            m.Reason,
		ActorID:           m.ActorID,
		IncludeInAnalysis: m.IncludeInAnalysis,
		ReportID:          m.ReportID,
		CreatedAt:         m.CreatedAt,
	}
}

// StockLedgerModelFromDomain creates a model from a domain LedgerEntry
func StockLedgerModelFromDomain(e *stock.LedgerEntry) *StockLedgerModel {
	return &StockLedgerModel{
		ID:                e.ID,
		TenantID:          e.TenantID,
		RepID:             e.RepID,
		ProductID:         e.ProductID,
		QuantityChange:    e.QuantityChange,
		Reason:            e.Reason,
		ActorID:           e.ActorID,
		IncludeInAnalysis: e.IncludeInAnalysis,
		ReportID:          e.ReportID,
		CreatedAt:         e.CreatedAt,
	}
}
