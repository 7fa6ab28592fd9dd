package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoseline/backend/internal/domain/ledger"
)

// AssemblyModel maps the assemblies table. The module index is stored
// in its serialized pipe form; that form never leaves this package.
type AssemblyModel struct {
	Item        int    `gorm:"primaryKey;autoIncrement:false;column:item"`
	Description string `gorm:"not null"`
	Customer    string
	NCI         string `gorm:"column:nci"`
	CustomerRev string
	Adds        string     `gorm:"not null"`
	Approved    *bool      // nil = pending
	DecidedBy   *uuid.UUID `gorm:"type:uuid"`
	DecidedAt   *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for AssemblyModel
func (AssemblyModel) TableName() string {
	return "assemblies"
}

// ToDomain converts AssemblyModel to a domain Assembly
func (m *AssemblyModel) ToDomain() *ledger.Assembly {
	approval := ledger.Approval{Status: ledger.ApprovalPending}
	if m.Approved != nil {
		if *m.Approved {
			approval.Status = ledger.ApprovalApproved
		} else {
			approval.Status = ledger.ApprovalRejected
		}
		if m.DecidedBy != nil {
			approval.DecidedBy = *m.DecidedBy
		}
		if m.DecidedAt != nil {
			approval.DecidedAt = *m.DecidedAt
		}
	}

	return &ledger.Assembly{
		Item:        m.Item,
		Description: m.Description,
		Customer:    m.Customer,
		NCI:         m.NCI,
		CustomerRev: m.CustomerRev,
		Adds:        ledger.DecodeAdds(m.Adds),
		Approval:    approval,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AssemblyModelFromDomain converts a domain Assembly to AssemblyModel
func AssemblyModelFromDomain(a *ledger.Assembly) *AssemblyModel {
	m := &AssemblyModel{
		Item:        a.Item,
		Description: a.Description,
		Customer:    a.Customer,
		NCI:         a.NCI,
		CustomerRev: a.CustomerRev,
		Adds:        a.Adds.Encode(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	if a.Approval.Decided() {
		approved := a.Approval.Status == ledger.ApprovalApproved
		decidedBy := a.Approval.DecidedBy
		decidedAt := a.Approval.DecidedAt
		m.Approved = &approved
		m.DecidedBy = &decidedBy
		m.DecidedAt = &decidedAt
	}

	return m
}

// ModuleRecordModel maps one row of any module table. The seven module
// tables share this column layout; the concrete table is selected with
// Table(spec.Table) at query time.
type ModuleRecordModel struct {
	Folio       int `gorm:"primaryKey;autoIncrement:false;column:folio"`
	Item        int `gorm:"not null;index;column:item"`
	Description string
	Dies        string
	Crimp       string
	Curv        string
	CapA        string           `gorm:"column:cap_a"`
	CapB        string           `gorm:"column:cap_b"`
	Min         *decimal.Decimal `gorm:"type:numeric;column:min"`
	Nom         *decimal.Decimal `gorm:"type:numeric;column:nom"`
	Max         *decimal.Decimal `gorm:"type:numeric;column:max"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// ToDomain converts ModuleRecordModel to a domain ModuleRecord
func (m *ModuleRecordModel) ToDomain(kind ledger.ModuleKind) *ledger.ModuleRecord {
	return &ledger.ModuleRecord{
		Kind:  kind,
		Folio: m.Folio,
		Item:  m.Item,
		Fields: ledger.ModuleFields{
			Description: m.Description,
			Dies:        m.Dies,
			Crimp:       m.Crimp,
			Curv:        m.Curv,
			CapA:        m.CapA,
			CapB:        m.CapB,
			Min:         m.Min,
			Nom:         m.Nom,
			Max:         m.Max,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ModuleRecordModelFromDomain converts a domain ModuleRecord to ModuleRecordModel
func ModuleRecordModelFromDomain(r *ledger.ModuleRecord) *ModuleRecordModel {
	return &ModuleRecordModel{
		Folio:       r.Folio,
		Item:        r.Item,
		Description: r.Fields.Description,
		Dies:        r.Fields.Dies,
		Crimp:       r.Fields.Crimp,
		Curv:        r.Fields.Curv,
		CapA:        r.Fields.CapA,
		CapB:        r.Fields.CapB,
		Min:         r.Fields.Min,
		Nom:         r.Fields.Nom,
		Max:         r.Fields.Max,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
