package ops

import (
	"math"
	"math/rand"
	"strings"

	"github.com/mna/scratchrt/lang/value"
)

func registerOperators(t *Table) {
	r := t.Reporters
	r["operator_add"] = opBinaryNum(func(a, b float64) float64 { return a + b })
	r["operator_subtract"] = opBinaryNum(func(a, b float64) float64 { return a - b })
	r["operator_multiply"] = opBinaryNum(func(a, b float64) float64 { return a * b })
	r["operator_divide"] = opBinaryNum(divide)
	r["operator_mod"] = opBinaryNum(flooredMod)
	r["operator_random"] = opRandom

	r["operator_equals"] = opCompare(func(c int) bool { return c == 0 })
	r["operator_gt"] = opCompare(func(c int) bool { return c > 0 })
	r["operator_lt"] = opCompare(func(c int) bool { return c < 0 })

	r["operator_and"] = opLogical(func(a, b bool) bool { return a && b })
	r["operator_or"] = opLogical(func(a, b bool) bool { return a || b })
	r["operator_not"] = opNot

	r["operator_join"] = opJoin
	r["operator_letter_of"] = opLetterOf
	r["operator_length"] = opLength
	r["operator_contains"] = opContains
}

func opBinaryNum(fn func(a, b float64) float64) ReporterFunc {
	return func(ctx *EvalContext) (value.Value, error) {
		a, err := ctx.InputNumber("NUM1")
		if err != nil {
			return nil, err
		}
		b, err := ctx.InputNumber("NUM2")
		if err != nil {
			return nil, err
		}
		return value.Number(fn(float64(a), float64(b))), nil
	}
}

// divide implements spec.md §4.1: division by zero yields ±Infinity, and
// 0/0 yields NaN (the caller, e.g. data_changevariableby, is responsible
// for coercing NaN to 0 when storing into a variable).
func divide(a, b float64) float64 {
	return a / b
}

// flooredMod implements Scratch's floored modulo: the result takes the sign
// of the divisor, unlike Go's truncated % operator.
func flooredMod(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func opRandom(ctx *EvalContext) (value.Value, error) {
	from, err := ctx.InputNumber("FROM")
	if err != nil {
		return nil, err
	}
	to, err := ctx.InputNumber("TO")
	if err != nil {
		return nil, err
	}
	lo, hi := float64(from), float64(to)
	if lo > hi {
		lo, hi = hi, lo
	}
	fromStr, _ := ctx.InputString("FROM")
	toStr, _ := ctx.InputString("TO")
	if isIntLiteral(fromStr) && isIntLiteral(toStr) {
		return value.Number(float64(int64(lo) + rand.Int63n(int64(hi-lo)+1))), nil
	}
	return value.Number(lo + rand.Float64()*(hi-lo)), nil
}

func isIntLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func opCompare(pred func(c int) bool) ReporterFunc {
	return func(ctx *EvalContext) (value.Value, error) {
		a, err := ctx.Input("OPERAND1")
		if err != nil {
			return nil, err
		}
		b, err := ctx.Input("OPERAND2")
		if err != nil {
			return nil, err
		}
		return value.Boolean(pred(value.Compare(a, b))), nil
	}
}

func opLogical(fn func(a, b bool) bool) ReporterFunc {
	return func(ctx *EvalContext) (value.Value, error) {
		a, err := ctx.InputBoolean("OPERAND1")
		if err != nil {
			return nil, err
		}
		b, err := ctx.InputBoolean("OPERAND2")
		if err != nil {
			return nil, err
		}
		return value.Boolean(fn(bool(a), bool(b))), nil
	}
}

func opNot(ctx *EvalContext) (value.Value, error) {
	a, err := ctx.InputBoolean("OPERAND")
	if err != nil {
		return nil, err
	}
	return value.Boolean(!a), nil
}

func opJoin(ctx *EvalContext) (value.Value, error) {
	a, err := ctx.InputString("STRING1")
	if err != nil {
		return nil, err
	}
	b, err := ctx.InputString("STRING2")
	if err != nil {
		return nil, err
	}
	return value.String(a + b), nil
}

func opLetterOf(ctx *EvalContext) (value.Value, error) {
	idx, err := ctx.InputNumber("LETTER")
	if err != nil {
		return nil, err
	}
	s, err := ctx.InputString("STRING")
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	i := int(idx)
	if i < 1 || i > len(runes) {
		return value.String(""), nil
	}
	return value.String(string(runes[i-1])), nil
}

func opLength(ctx *EvalContext) (value.Value, error) {
	s, err := ctx.InputString("STRING")
	if err != nil {
		return nil, err
	}
	return value.Number(len([]rune(s))), nil
}

func opContains(ctx *EvalContext) (value.Value, error) {
	s1, err := ctx.InputString("STRING1")
	if err != nil {
		return nil, err
	}
	s2, err := ctx.InputString("STRING2")
	if err != nil {
		return nil, err
	}
	return value.Boolean(strings.Contains(strings.ToLower(s1), strings.ToLower(s2))), nil
}
