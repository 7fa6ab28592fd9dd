package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoseline/backend/internal/domain/shared"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestModuleSpecTable(t *testing.T) {
	specs := AllModuleSpecs()
	require.Len(t, specs, SlotCount)

	// Each kind owns exactly its slot position.
	for i, spec := range specs {
		assert.Equal(t, Slot(i), spec.Slot)
		bySlot, ok := SpecBySlot(Slot(i))
		require.True(t, ok)
		assert.Equal(t, spec.Kind, bySlot.Kind)
	}

	spec, ok := SpecFor(KindCrimpB)
	require.True(t, ok)
	assert.Equal(t, "crimps_b", spec.Table)
	assert.Equal(t, SlotCrimpB, spec.Slot)

	_, ok = SpecFor(ModuleKind("gasket"))
	assert.False(t, ok)
	_, ok = SpecBySlot(Slot(7))
	assert.False(t, ok)
}

func TestParseModuleKind(t *testing.T) {
	kind, err := ParseModuleKind(" Collar-A ")
	require.NoError(t, err)
	assert.Equal(t, KindCollarA, kind)

	_, err = ParseModuleKind("bolt")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestModuleFieldsValidate(t *testing.T) {
	tests := []struct {
		name     string
		kind     ModuleKind
		fields   ModuleFields
		wantErr  bool
		contains string
	}{
		{
			name:   "hose needs only description",
			kind:   KindHose,
			fields: ModuleFields{Description: "2-wire 1/2in"},
		},
		{
			name:   "hose accepts curv and tolerances",
			kind:   KindHose,
			fields: ModuleFields{Description: "2-wire", Curv: "R2", Min: dec("10"), Nom: dec("12"), Max: dec("14")},
		},
		{
			name:     "hose rejects dies",
			kind:     KindHose,
			fields:   ModuleFields{Description: "2-wire", Dies: "D-4"},
			wantErr:  true,
			contains: "dies",
		},
		{
			name:     "sleeve requires tolerances",
			kind:     KindSleeve,
			fields:   ModuleFields{Description: "sleeve"},
			wantErr:  true,
			contains: "min, nom, max",
		},
		{
			name:   "sleeve complete",
			kind:   KindSleeve,
			fields: ModuleFields{Description: "sleeve", Min: dec("1"), Nom: dec("2"), Max: dec("3")},
		},
		{
			name:     "crimp requires dies and crimp",
			kind:     KindCrimpA,
			fields:   ModuleFields{Min: dec("30.5"), Nom: dec("31"), Max: dec("31.5")},
			wantErr:  true,
			contains: "dies, crimp",
		},
		{
			name:   "crimp complete",
			kind:   KindCrimpB,
			fields: ModuleFields{Dies: "D-80", Crimp: "C-12", Min: dec("30.5"), Nom: dec("31"), Max: dec("31.5")},
		},
		{
			name:   "collar caps are optional",
			kind:   KindCollarA,
			fields: ModuleFields{Description: "collar", CapA: "red"},
		},
		{
			name:     "collar rejects tolerances",
			kind:     KindCollarB,
			fields:   ModuleFields{Description: "collar", Nom: dec("5")},
			wantErr:  true,
			contains: "nom",
		},
		{
			name:     "packaging is description only",
			kind:     KindPackaging,
			fields:   ModuleFields{Description: "box", CapA: "x"},
			wantErr:  true,
			contains: "cap_a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := SpecFor(tt.kind)
			require.True(t, ok)
			err := tt.fields.Validate(spec)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
				assert.Contains(t, domainErr.Message, tt.contains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewModuleRecord(t *testing.T) {
	rec, err := NewModuleRecord(KindHose, 12, ModuleFields{Description: "2-wire"})
	require.NoError(t, err)
	assert.Equal(t, 12, rec.Item)
	assert.Zero(t, rec.Folio)

	_, err = NewModuleRecord(KindHose, 0, ModuleFields{Description: "2-wire"})
	assert.Error(t, err)

	_, err = NewModuleRecord(ModuleKind("gasket"), 1, ModuleFields{})
	assert.Error(t, err)
}

func TestModuleRecordUpdateFields(t *testing.T) {
	rec, err := NewModuleRecord(KindSleeve, 3,
		ModuleFields{Description: "sleeve", Min: dec("1"), Nom: dec("2"), Max: dec("3")})
	require.NoError(t, err)

	err = rec.UpdateFields(ModuleFields{Description: "sleeve rev B", Min: dec("1.1"), Nom: dec("2.1"), Max: dec("3.1")})
	require.NoError(t, err)
	assert.Equal(t, "sleeve rev B", rec.Fields.Description)

	// Invalid fields leave the record untouched.
	err = rec.UpdateFields(ModuleFields{Description: "no tolerances"})
	require.Error(t, err)
	assert.Equal(t, "sleeve rev B", rec.Fields.Description)
}
