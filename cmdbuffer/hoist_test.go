package cmdbuffer

import (
	goerrors "errors"
	"testing"

	"github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

func TestMoveParametersAndConstantsToFront(t *testing.T) {
	m := hlo.NewModule("m")
	b := hlo.NewBuilder(m, "main")
	a := b.Parameter("a", "s32[]")
	neg := b.Op("negate", "neg", "s32[]", a)
	k := b.Constant("k", 7, "s32[]")
	p2 := b.Parameter("p2", "s32[]")
	add := b.Op("add", "add", "s32[]", neg, k)
	c := b.Build(add)
	// Leaves deliberately interleaved with computing instructions.
	c.SetSchedule([]hlo.InstrID{a, neg, k, p2, add})

	if err := MoveParametersAndConstantsToFront(c); err != nil {
		t.Fatalf("hoist failed: %v", err)
	}

	want := []hlo.InstrID{a, k, p2, neg, add}
	got := c.Instructions()
	if len(got) != len(want) {
		t.Fatalf("schedule length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("schedule = %v, want %v", got, want)
		}
	}

	if err := hlo.Verify(c); err != nil {
		t.Errorf("hoisted computation fails verification: %v", err)
	}
}

func TestMoveParametersAndConstantsToFront_Idempotent(t *testing.T) {
	m := hlo.NewModule("m")
	b := hlo.NewBuilder(m, "main")
	a := b.Parameter("a", "s32[]")
	neg := b.Op("negate", "neg", "s32[]", a)
	k := b.Constant("k", 1, "s32[]")
	add := b.Op("add", "add", "s32[]", neg, k)
	c := b.Build(add)
	c.SetSchedule([]hlo.InstrID{a, neg, k, add})

	if err := MoveParametersAndConstantsToFront(c); err != nil {
		t.Fatalf("first hoist failed: %v", err)
	}
	once := append([]hlo.InstrID(nil), c.Instructions()...)

	if err := MoveParametersAndConstantsToFront(c); err != nil {
		t.Fatalf("second hoist failed: %v", err)
	}
	twice := c.Instructions()

	for i := range once {
		if twice[i] != once[i] {
			t.Fatalf("hoist is not idempotent: %v then %v", once, twice)
		}
	}
}

func TestMoveParametersAndConstantsToFront_MalformedLeaf(t *testing.T) {
	m := hlo.NewModule("m")
	c := m.AddComputation("main")
	a := c.Add(hlo.Instruction{Name: "a", Op: hlo.OpParameter})
	// A constant with an inbound operand is a contract violation.
	c.Add(hlo.Instruction{Name: "k", Op: hlo.OpConstant, Operands: []hlo.InstrID{a}})

	err := MoveParametersAndConstantsToFront(c)
	if err == nil {
		t.Fatal("hoist should reject a leaf with operands")
	}
	target := &errors.Error{Phase: errors.PhaseHoist, Kind: errors.KindMalformedLeaf}
	if !goerrors.Is(err, target) {
		t.Errorf("error = %v, want malformed_leaf", err)
	}
}
