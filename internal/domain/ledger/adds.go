package ledger

import (
	"strconv"
	"strings"
)

// SlotCount is the number of module slots on an assembly.
const SlotCount = 7

// Slot identifies one position in an assembly's module index.
type Slot int

// Slot positions, in serialized order.
const (
	SlotHose Slot = iota
	SlotSleeve
	SlotCrimpA
	SlotCollarA
	SlotCrimpB
	SlotCollarB
	SlotPackaging
)

// Adds is an assembly's module index: one item reference per slot,
// where 0 means "no module linked".
type Adds [SlotCount]int

// DecodeAdds parses the pipe-delimited serialized form. Segments that
// are not a plain run of ASCII digits decode to 0, missing trailing
// segments default to 0, and extra segments are dropped.
func DecodeAdds(s string) Adds {
	var a Adds
	parts := strings.Split(s, "|")
	for i := 0; i < SlotCount && i < len(parts); i++ {
		a[i] = parseSlot(parts[i])
	}
	return a
}

func parseSlot(s string) int {
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Encode renders the pipe-delimited serialized form. Non-positive
// values render as "0".
func (a Adds) Encode() string {
	var b strings.Builder
	for i, v := range a {
		if i > 0 {
			b.WriteByte('|')
		}
		if v <= 0 {
			b.WriteByte('0')
		} else {
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}

// Get returns the item linked at the slot, or 0 when empty.
// Negative stored values are treated as empty.
func (a Adds) Get(slot Slot) int {
	if slot < 0 || slot >= SlotCount {
		return 0
	}
	if a[slot] <= 0 {
		return 0
	}
	return a[slot]
}

// Set returns a copy with the slot pointing at item. Setting 0 or a
// negative item clears the slot.
func (a Adds) Set(slot Slot, item int) Adds {
	if slot < 0 || slot >= SlotCount {
		return a
	}
	if item < 0 {
		item = 0
	}
	a[slot] = item
	return a
}

// IsLinked reports whether the slot holds a module reference.
func (a Adds) IsLinked(slot Slot) bool {
	return a.Get(slot) > 0
}

// LinkedCount returns how many slots hold a module reference.
func (a Adds) LinkedCount() int {
	n := 0
	for i := Slot(0); i < SlotCount; i++ {
		if a.IsLinked(i) {
			n++
		}
	}
	return n
}

// AnyLinked reports whether at least one slot is occupied.
func (a Adds) AnyLinked() bool {
	return a.LinkedCount() > 0
}

// FullyLinked reports whether every slot is occupied.
func (a Adds) FullyLinked() bool {
	return a.LinkedCount() == SlotCount
}
