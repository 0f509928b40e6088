package hlotext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

// Parse builds a module from textual IR. The entry computation is the one
// marked with the entry keyword, or the first computation otherwise.
func Parse(source string) (*hlo.Module, error) {
	p := &parser{}
	if err := p.run(source); err != nil {
		return nil, err
	}
	return p.mod, nil
}

type parser struct {
	mod      *hlo.Module
	comp     *hlo.Computation
	names    map[string]hlo.InstrID
	pending  []pendingCallee
	sawEntry bool
}

// pendingCallee is a calls= reference waiting for its computation to be
// defined.
type pendingCallee struct {
	instr hlo.InstrID
	name  string
	line  int
}

func (p *parser) run(source string) error {
	for i, raw := range strings.Split(source, "\n") {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := p.parseLine(i+1, line); err != nil {
			return err
		}
	}
	if p.comp != nil {
		return errors.ParseFailed(0, fmt.Sprintf("computation %q not closed", p.comp.Name()))
	}
	if p.mod == nil {
		return errors.ParseFailed(0, "no module declaration")
	}
	for _, pc := range p.pending {
		callee, err := p.mod.NamedComputation(pc.name)
		if err != nil {
			return errors.ParseFailed(pc.line, fmt.Sprintf("calls=%s does not name a computation", pc.name))
		}
		p.mod.Instr(pc.instr).Callee = callee.ID()
	}
	return nil
}

func (p *parser) parseLine(line int, text string) error {
	switch {
	case strings.HasPrefix(text, "module "):
		if p.mod != nil {
			return errors.ParseFailed(line, "duplicate module declaration")
		}
		p.mod = hlo.NewModule(strings.TrimSpace(strings.TrimPrefix(text, "module ")))
		return nil

	case strings.HasPrefix(text, "entry computation "), strings.HasPrefix(text, "computation "):
		if p.mod == nil {
			return errors.ParseFailed(line, "computation before module declaration")
		}
		if p.comp != nil {
			return errors.ParseFailed(line, "nested computation")
		}
		entry := strings.HasPrefix(text, "entry ")
		name := strings.TrimPrefix(text, "entry ")
		name = strings.TrimSpace(strings.TrimPrefix(name, "computation "))
		name = strings.TrimSpace(strings.TrimSuffix(name, "{"))
		if name == "" || strings.ContainsAny(name, " \t") {
			return errors.ParseFailed(line, "malformed computation header")
		}
		p.comp = p.mod.AddComputation(name)
		p.names = make(map[string]hlo.InstrID)
		if entry || !p.sawEntry && p.mod.Entry() == nil {
			p.mod.SetEntry(p.comp)
		}
		if entry {
			p.sawEntry = true
		}
		return nil

	case text == "}":
		if p.comp == nil {
			return errors.ParseFailed(line, "unmatched }")
		}
		p.comp = nil
		return nil

	case strings.HasPrefix(text, "root "):
		if p.comp == nil {
			return errors.ParseFailed(line, "root outside computation")
		}
		name := strings.TrimSpace(strings.TrimPrefix(text, "root "))
		id, err := p.resolveRef(line, name)
		if err != nil {
			return err
		}
		p.comp.SetRoot(id)
		return nil

	case strings.HasPrefix(text, "%"):
		return p.parseInstr(line, text)
	}
	return errors.ParseFailed(line, fmt.Sprintf("unrecognized line %q", text))
}

func (p *parser) parseInstr(line int, text string) error {
	if p.comp == nil {
		return errors.ParseFailed(line, "instruction outside computation")
	}
	lhs, rhs, ok := strings.Cut(text, "=")
	if !ok {
		return errors.ParseFailed(line, "instruction without =")
	}
	name := strings.TrimPrefix(strings.TrimSpace(lhs), "%")
	if name == "" {
		return errors.ParseFailed(line, "instruction without a name")
	}
	if _, dup := p.names[name]; dup {
		return errors.ParseFailed(line, fmt.Sprintf("duplicate instruction name %%%s", name))
	}
	rhs = strings.TrimSpace(rhs)

	open := strings.Index(rhs, "(")
	if open < 0 {
		return errors.ParseFailed(line, "instruction without operand list")
	}
	op := hlo.OpKind(strings.TrimSpace(rhs[:open]))
	end := matchParen(rhs, open)
	if end < 0 {
		return errors.ParseFailed(line, "unterminated operand list")
	}
	argText := rhs[open+1 : end]
	attrText := strings.TrimSpace(rhs[end+1:])

	ins := hlo.Instruction{Name: name, Op: op}

	// Attributes: an optional calls= reference, then an optional shape
	// after a colon.
	var calleeName string
	if before, shape, found := strings.Cut(attrText, ":"); found {
		ins.Shape = strings.TrimSpace(shape)
		attrText = strings.TrimSpace(before)
	}
	if attrText != "" {
		val, found := strings.CutPrefix(attrText, "calls=")
		if !found {
			return errors.ParseFailed(line, fmt.Sprintf("unrecognized attribute %q", attrText))
		}
		calleeName = strings.TrimSpace(val)
	}

	if err := p.parseArgs(line, &ins, argText); err != nil {
		return err
	}

	id := p.comp.Add(ins)
	p.names[name] = id
	if calleeName != "" {
		p.pending = append(p.pending, pendingCallee{instr: id, name: calleeName, line: line})
	}
	return nil
}

func (p *parser) parseArgs(line int, ins *hlo.Instruction, argText string) error {
	var args []string
	if strings.TrimSpace(argText) != "" {
		args = strings.Split(argText, ",")
	}

	number := func(s string) (int64, error) {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.ParseFailed(line, fmt.Sprintf("expected a number, got %q", strings.TrimSpace(s)))
		}
		return v, nil
	}

	switch ins.Op {
	case hlo.OpParameter:
		if len(args) != 1 {
			return errors.ParseFailed(line, "param takes exactly one index")
		}
		v, err := number(args[0])
		if err != nil {
			return err
		}
		ins.ParamIndex = int(v)
		return nil

	case hlo.OpConstant:
		if len(args) != 1 {
			return errors.ParseFailed(line, "const takes exactly one literal")
		}
		v, err := number(args[0])
		if err != nil {
			return err
		}
		ins.Literal = v
		return nil

	case hlo.OpGetTupleElement:
		if len(args) != 2 {
			return errors.ParseFailed(line, "gte takes a tuple and an index")
		}
		id, err := p.resolveRef(line, args[0])
		if err != nil {
			return err
		}
		v, err := number(args[1])
		if err != nil {
			return err
		}
		ins.Operands = []hlo.InstrID{id}
		ins.TupleIndex = int(v)
		return nil
	}

	for _, arg := range args {
		id, err := p.resolveRef(line, arg)
		if err != nil {
			return err
		}
		ins.Operands = append(ins.Operands, id)
	}
	return nil
}

func (p *parser) resolveRef(line int, ref string) (hlo.InstrID, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "%") {
		return hlo.None, errors.ParseFailed(line, fmt.Sprintf("expected %%reference, got %q", ref))
	}
	id, ok := p.names[strings.TrimPrefix(ref, "%")]
	if !ok {
		return hlo.None, errors.ParseFailed(line, fmt.Sprintf("reference to undefined instruction %s", ref))
	}
	return id, nil
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
