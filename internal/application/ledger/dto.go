package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoseline/backend/internal/domain/ledger"
)

// AssemblyRequest carries the descriptive fields of an assembly
type AssemblyRequest struct {
	Description string `json:"description" binding:"required"`
	Customer    string `json:"customer"`
	NCI         string `json:"nci"`
	CustomerRev string `json:"customer_rev"`
}

// ApprovalResponse describes the state of an assembly's approval latch
type ApprovalResponse struct {
	Status    string     `json:"status"`
	DecidedBy *string    `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// AssemblyResponse is the wire representation of an assembly. The
// module index is exposed as a kind-keyed map, never in serialized form.
type AssemblyResponse struct {
	Item        int              `json:"item"`
	Description string           `json:"description"`
	Customer    string           `json:"customer"`
	NCI         string           `json:"nci"`
	CustomerRev string           `json:"customer_rev"`
	Modules     map[string]int   `json:"modules"`
	Approval    ApprovalResponse `json:"approval"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToAssemblyResponse converts a domain Assembly to its wire form
func ToAssemblyResponse(a *ledger.Assembly) AssemblyResponse {
	approval := ApprovalResponse{Status: string(a.Approval.Status)}
	if a.Approval.Decided() {
		decidedBy := a.Approval.DecidedBy.String()
		decidedAt := a.Approval.DecidedAt
		approval.DecidedBy = &decidedBy
		approval.DecidedAt = &decidedAt
	}

	return AssemblyResponse{
		Item:        a.Item,
		Description: a.Description,
		Customer:    a.Customer,
		NCI:         a.NCI,
		CustomerRev: a.CustomerRev,
		Modules:     modulesMap(a.Adds),
		Approval:    approval,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func modulesMap(adds ledger.Adds) map[string]int {
	m := make(map[string]int, ledger.SlotCount)
	for _, spec := range ledger.AllModuleSpecs() {
		m[string(spec.Kind)] = adds.Get(spec.Slot)
	}
	return m
}

// ListFilter carries list query options
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// ModuleFieldsRequest carries module record attributes on the wire
type ModuleFieldsRequest struct {
	Description string           `json:"description"`
	Dies        string           `json:"dies"`
	Crimp       string           `json:"crimp"`
	Curv        string           `json:"curv"`
	CapA        string           `json:"cap_a"`
	CapB        string           `json:"cap_b"`
	Min         *decimal.Decimal `json:"min"`
	Nom         *decimal.Decimal `json:"nom"`
	Max         *decimal.Decimal `json:"max"`
}

// ToDomain converts the request fields to domain ModuleFields
func (r ModuleFieldsRequest) ToDomain() ledger.ModuleFields {
	return ledger.ModuleFields{
		Description: r.Description,
		Dies:        r.Dies,
		Crimp:       r.Crimp,
		Curv:        r.Curv,
		CapA:        r.CapA,
		CapB:        r.CapB,
		Min:         r.Min,
		Nom:         r.Nom,
		Max:         r.Max,
	}
}

// UpsertModuleRequest carries a module write. Item is required on
// first insert; once the slot is linked the reference is immutable,
// so a conflicting non-zero item is rejected.
type UpsertModuleRequest struct {
	Item int `json:"item"`
	ModuleFieldsRequest
}

// ModuleRecordResponse is the wire representation of a module record
type ModuleRecordResponse struct {
	Kind        string           `json:"kind"`
	Folio       int              `json:"folio"`
	Item        int              `json:"item"`
	Description string           `json:"description,omitempty"`
	Dies        string           `json:"dies,omitempty"`
	Crimp       string           `json:"crimp,omitempty"`
	Curv        string           `json:"curv,omitempty"`
	CapA        string           `json:"cap_a,omitempty"`
	CapB        string           `json:"cap_b,omitempty"`
	Min         *decimal.Decimal `json:"min,omitempty"`
	Nom         *decimal.Decimal `json:"nom,omitempty"`
	Max         *decimal.Decimal `json:"max,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToModuleRecordResponse converts a domain ModuleRecord to its wire form
func ToModuleRecordResponse(r *ledger.ModuleRecord) ModuleRecordResponse {
	return ModuleRecordResponse{
		Kind:        string(r.Kind),
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

// UpsertModuleResponse reports the outcome of a module write
type UpsertModuleResponse struct {
	Mode    string               `json:"mode"`
	Record  ModuleRecordResponse `json:"record"`
	Modules map[string]int       `json:"modules"`
}

// DeletionReportResponse describes a cascade delete outcome
type DeletionReportResponse struct {
	Item         int              `json:"item"`
	DryRun       bool             `json:"dry_run"`
	Modules      map[string]int   `json:"modules"`
	ModuleRows   map[string]int64 `json:"module_rows"`
	AssemblyRows int64            `json:"assembly_rows"`
	TotalRows    int64            `json:"total_rows"`
}

// ToDeletionReportResponse converts a domain DeletionReport to its wire form
func ToDeletionReportResponse(r *ledger.DeletionReport) DeletionReportResponse {
	moduleRows := make(map[string]int64, len(r.ModuleCounts))
	for kind, n := range r.ModuleCounts {
		moduleRows[string(kind)] = n
	}
	return DeletionReportResponse{
		Item:         r.Item,
		DryRun:       r.DryRun,
		Modules:      modulesMap(r.Slots),
		ModuleRows:   moduleRows,
		AssemblyRows: r.AssemblyRows,
		TotalRows:    r.TotalRows(),
	}
}

// KindCoverageResponse reports how many assemblies link a module kind
type KindCoverageResponse struct {
	Kind    string  `json:"kind"`
	Linked  int64   `json:"linked"`
	Percent float64 `json:"percent"`
}

// CustomerCountResponse is one entry of the top-customers list
type CustomerCountResponse struct {
	Customer string `json:"customer"`
	Count    int64  `json:"count"`
}

// RecentAssemblyResponse is one row of the dashboard's recent list
type RecentAssemblyResponse struct {
	Item        int             `json:"item"`
	Description string          `json:"description"`
	Customer    string          `json:"customer"`
	Approval    string          `json:"approval"`
	Linked      map[string]bool `json:"linked"`
}

// SummaryResponse is the dashboard summary payload
type SummaryResponse struct {
	TotalAssemblies    int64                    `json:"total_assemblies"`
	WithModules        int64                    `json:"with_modules"`
	Completed          int64                    `json:"completed"`
	AverageLinkedSlots float64                  `json:"average_linked_slots"`
	Coverage           []KindCoverageResponse   `json:"coverage"`
	TopCustomers       []CustomerCountResponse  `json:"top_customers"`
	Recent             []RecentAssemblyResponse `json:"recent"`
}

// AssemblyListResponse is one page of assemblies
type AssemblyListResponse struct {
	Items      []AssemblyResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
