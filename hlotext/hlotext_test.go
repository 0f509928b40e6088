package hlotext

import (
	"errors"
	"strings"
	"testing"

	cberrors "github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

const example = `
module example

computation helper {
  %p0 = param(0) : s32[]
  %neg = negate(%p0) : s32[]
  root %neg
}

// entry comes last, forward reference from nowhere but calls= above is
// resolved after the whole source is read
entry computation main {
  %a = param(0) : s32[]
  %b = param(1) : s32[]
  %k = const(3) : s32[]
  %f = fusion(%a, %b) calls=helper : s32[]
  %t = tuple(%f, %k) : (s32[], s32[])
  %g = gte(%t, 1) : s32[]
  root %g
}
`

func TestParse(t *testing.T) {
	m, err := Parse(example)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Name() != "example" {
		t.Errorf("module name = %q, want example", m.Name())
	}
	if len(m.Computations()) != 2 {
		t.Fatalf("computation count = %d, want 2", len(m.Computations()))
	}
	entry := m.Entry()
	if entry == nil || entry.Name() != "main" {
		t.Fatalf("entry = %v, want main", entry)
	}

	if got := len(entry.Instructions()); got != 6 {
		t.Fatalf("main instruction count = %d, want 6", got)
	}

	helper, err := m.NamedComputation("helper")
	if err != nil {
		t.Fatalf("helper not found: %v", err)
	}

	var fusion *hlo.Instruction
	for _, id := range entry.Instructions() {
		if ins := entry.Instr(id); ins.Op == "fusion" {
			fusion = ins
		}
	}
	if fusion == nil {
		t.Fatal("fusion instruction not parsed")
	}
	if fusion.Callee != helper.ID() {
		t.Errorf("fusion callee = %d, want %d", fusion.Callee, helper.ID())
	}
	if len(fusion.Operands) != 2 {
		t.Errorf("fusion operands = %v, want 2", fusion.Operands)
	}
	if fusion.Shape != "s32[]" {
		t.Errorf("fusion shape = %q, want s32[]", fusion.Shape)
	}

	if err := hlo.VerifyModule(m); err != nil {
		t.Errorf("parsed module fails verification: %v", err)
	}
}

func TestParse_GteAndConst(t *testing.T) {
	m, err := Parse(example)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	entry := m.Entry()

	for _, id := range entry.Instructions() {
		ins := entry.Instr(id)
		switch ins.Op {
		case hlo.OpConstant:
			if ins.Literal != 3 {
				t.Errorf("const literal = %d, want 3", ins.Literal)
			}
		case hlo.OpGetTupleElement:
			if ins.TupleIndex != 1 {
				t.Errorf("gte index = %d, want 1", ins.TupleIndex)
			}
			if len(ins.Operands) != 1 {
				t.Errorf("gte operands = %v, want 1", ins.Operands)
			}
		case hlo.OpParameter:
			if ins.Name == "b" && ins.ParamIndex != 1 {
				t.Errorf("param b index = %d, want 1", ins.ParamIndex)
			}
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	m, err := Parse(example)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reparsed, err := Parse(m.String())
	if err != nil {
		t.Fatalf("reparse of printed module failed: %v\n%s", err, m.String())
	}
	if reparsed.String() != m.String() {
		t.Errorf("print/parse does not round-trip:\nfirst:\n%s\nsecond:\n%s", m.String(), reparsed.String())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		detail string
	}{
		{
			name:   "no module",
			source: "computation main {\n}\n",
			detail: "before module",
		},
		{
			name:   "undefined reference",
			source: "module m\ncomputation main {\n  %x = negate(%missing)\n}\n",
			detail: "undefined instruction",
		},
		{
			name:   "unclosed computation",
			source: "module m\ncomputation main {\n  %a = param(0)\n",
			detail: "not closed",
		},
		{
			name:   "unknown callee",
			source: "module m\ncomputation main {\n  %a = param(0)\n  %f = fusion(%a) calls=ghost\n}\n",
			detail: "calls=ghost",
		},
		{
			name:   "duplicate name",
			source: "module m\ncomputation main {\n  %a = param(0)\n  %a = param(1)\n}\n",
			detail: "duplicate",
		},
		{
			name:   "bad attribute",
			source: "module m\ncomputation main {\n  %a = param(0)\n  %f = copy(%a) color=red\n}\n",
			detail: "unrecognized attribute",
		},
	}

	target := &cberrors.Error{Phase: cberrors.PhaseParse, Kind: cberrors.KindInvalidData}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !errors.Is(err, target) {
				t.Errorf("error = %v, want a parse error", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}
		})
	}
}
