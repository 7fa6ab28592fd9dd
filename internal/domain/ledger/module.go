package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoseline/backend/internal/domain/shared"
)

// ModuleKind identifies one of the seven module types that compose an
// assembly.
type ModuleKind string

// Module kinds, in slot order.
const (
	KindHose      ModuleKind = "hose"
	KindSleeve    ModuleKind = "sleeve"
	KindCrimpA    ModuleKind = "crimp-a"
	KindCollarA   ModuleKind = "collar-a"
	KindCrimpB    ModuleKind = "crimp-b"
	KindCollarB   ModuleKind = "collar-b"
	KindPackaging ModuleKind = "packaging"
)

// FieldName names one attribute a module record can carry.
type FieldName string

// Module record attributes.
const (
	FieldDescription FieldName = "description"
	FieldDies        FieldName = "dies"
	FieldCrimp       FieldName = "crimp"
	FieldCurv        FieldName = "curv"
	FieldCapA        FieldName = "cap_a"
	FieldCapB        FieldName = "cap_b"
	FieldMin         FieldName = "min"
	FieldNom         FieldName = "nom"
	FieldMax         FieldName = "max"
)

// ModuleSpec is the static policy for one module kind: where it lives,
// which slot it fills, and which fields it accepts.
type ModuleSpec struct {
	Kind     ModuleKind
	Slot     Slot
	Table    string
	Required []FieldName
	Optional []FieldName
}

var moduleSpecs = [SlotCount]ModuleSpec{
	{
		Kind:     KindHose,
		Slot:     SlotHose,
		Table:    "hoses",
		Required: []FieldName{FieldDescription},
		Optional: []FieldName{FieldCurv, FieldMin, FieldNom, FieldMax},
	},
	{
		Kind:     KindSleeve,
		Slot:     SlotSleeve,
		Table:    "sleeves",
		Required: []FieldName{FieldDescription, FieldMin, FieldNom, FieldMax},
	},
	{
		Kind:     KindCrimpA,
		Slot:     SlotCrimpA,
		Table:    "crimps_a",
		Required: []FieldName{FieldDies, FieldCrimp, FieldMin, FieldNom, FieldMax},
	},
	{
		Kind:     KindCollarA,
		Slot:     SlotCollarA,
		Table:    "collars_a",
		Required: []FieldName{FieldDescription},
		Optional: []FieldName{FieldCapA, FieldCapB},
	},
	{
		Kind:     KindCrimpB,
		Slot:     SlotCrimpB,
		Table:    "crimps_b",
		Required: []FieldName{FieldDies, FieldCrimp, FieldMin, FieldNom, FieldMax},
	},
	{
		Kind:     KindCollarB,
		Slot:     SlotCollarB,
		Table:    "collars_b",
		Required: []FieldName{FieldDescription},
		Optional: []FieldName{FieldCapA, FieldCapB},
	},
	{
		Kind:     KindPackaging,
		Slot:     SlotPackaging,
		Table:    "packagings",
		Required: []FieldName{FieldDescription},
	},
}

// AllModuleSpecs returns the module policy table in slot order.
func AllModuleSpecs() []ModuleSpec {
	specs := make([]ModuleSpec, SlotCount)
	copy(specs, moduleSpecs[:])
	return specs
}

// SpecFor returns the policy for a module kind.
func SpecFor(kind ModuleKind) (ModuleSpec, bool) {
	for _, s := range moduleSpecs {
		if s.Kind == kind {
			return s, true
		}
	}
	return ModuleSpec{}, false
}

// SpecBySlot returns the policy for a slot position.
func SpecBySlot(slot Slot) (ModuleSpec, bool) {
	if slot < 0 || slot >= SlotCount {
		return ModuleSpec{}, false
	}
	return moduleSpecs[slot], true
}

// ParseModuleKind parses a wire-format module kind.
func ParseModuleKind(s string) (ModuleKind, error) {
	kind := ModuleKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := SpecFor(kind); !ok {
		return "", shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown module kind: %s", s))
	}
	return kind, nil
}

// Accepts reports whether the kind carries the field at all.
func (s ModuleSpec) Accepts(field FieldName) bool {
	for _, f := range s.Required {
		if f == field {
			return true
		}
	}
	for _, f := range s.Optional {
		if f == field {
			return true
		}
	}
	return false
}

// ModuleFields holds the attribute values of a module record. Text
// fields are empty when absent; tolerances are nil when absent.
type ModuleFields struct {
	Description string
	Dies        string
	Crimp       string
	Curv        string
	CapA        string
	CapB        string
	Min         *decimal.Decimal
	Nom         *decimal.Decimal
	Max         *decimal.Decimal
}

func (f ModuleFields) value(name FieldName) (present bool) {
	switch name {
	case FieldDescription:
		return f.Description != ""
	case FieldDies:
		return f.Dies != ""
	case FieldCrimp:
		return f.Crimp != ""
	case FieldCurv:
		return f.Curv != ""
	case FieldCapA:
		return f.CapA != ""
	case FieldCapB:
		return f.CapB != ""
	case FieldMin:
		return f.Min != nil
	case FieldNom:
		return f.Nom != nil
	case FieldMax:
		return f.Max != nil
	}
	return false
}

// Validate checks the fields against the kind's policy: every required
// field present, no value on a field the kind does not carry.
func (f ModuleFields) Validate(spec ModuleSpec) error {
	var missing []string
	for _, name := range spec.Required {
		if !f.value(name) {
			missing = append(missing, string(name))
		}
	}
	if len(missing) > 0 {
		return shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Missing required fields for %s: %s",
				spec.Kind, strings.Join(missing, ", ")))
	}
	all := []FieldName{
		FieldDescription, FieldDies, FieldCrimp, FieldCurv,
		FieldCapA, FieldCapB, FieldMin, FieldNom, FieldMax,
	}
	for _, name := range all {
		if f.value(name) && !spec.Accepts(name) {
			return shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("Field %s is not accepted for %s", name, spec.Kind))
		}
	}
	return nil
}

// ModuleRecord is one row of a module table: a caller-assigned item
// number, a per-table folio sequence, and the kind's fields.
type ModuleRecord struct {
	Kind      ModuleKind
	Folio     int
	Item      int
	Fields    ModuleFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewModuleRecord builds a validated record for first insertion. The
// folio is assigned by the store.
func NewModuleRecord(kind ModuleKind, item int, fields ModuleFields) (*ModuleRecord, error) {
	spec, ok := SpecFor(kind)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown module kind: %s", kind))
	}
	if item <= 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Module item number must be positive")
	}
	if err := fields.Validate(spec); err != nil {
		return nil, err
	}
	now := time.Now()
	return &ModuleRecord{
		Kind:      kind,
		Item:      item,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateFields replaces the record's fields after validation. The item
// number is immutable once the record is linked to an assembly.
func (r *ModuleRecord) UpdateFields(fields ModuleFields) error {
	spec, ok := SpecFor(r.Kind)
	if !ok {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown module kind: %s", r.Kind))
	}
	if err := fields.Validate(spec); err != nil {
		return err
	}
	r.Fields = fields
	r.UpdatedAt = time.Now()
	return nil
}
