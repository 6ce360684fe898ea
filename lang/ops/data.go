package ops

import (
	"strings"

	"github.com/mna/scratchrt/lang/value"
)

func registerData(t *Table) {
	t.Statements["data_setvariableto"] = stSetVariableTo
	t.Statements["data_changevariableby"] = stChangeVariableBy
	t.Statements["data_addtolist"] = stAddToList
	t.Statements["data_deleteoflist"] = stDeleteOfList
	t.Statements["data_deletealloflist"] = stDeleteAllOfList
	t.Statements["data_insertatlist"] = stInsertAtList
	t.Statements["data_replaceitemoflist"] = stReplaceItemOfList

	t.Reporters["data_variable"] = rpVariable
	t.Reporters["data_listcontents"] = rpListContents
	t.Reporters["data_itemoflist"] = rpItemOfList
	t.Reporters["data_itemnumoflist"] = rpItemNumOfList
	t.Reporters["data_lengthoflist"] = rpLengthOfList
	t.Reporters["data_listcontainsitem"] = rpListContainsItem
}

// data_setvariableto stores the evaluated input as-is, preserving the
// Value's tag (spec.md §4.1): it does not coerce to Number like
// changevariableby does.
func stSetVariableTo(ctx *EvalContext) error {
	v, ok := ctx.Variable("VARIABLE")
	if !ok {
		return nil
	}
	val, err := ctx.Input("VALUE")
	if err != nil {
		return err
	}
	v.Value = val
	return nil
}

// stChangeVariableBy coerces the current value to Number, adds the
// coerced delta, and stores Number (spec.md §4.1): non-numeric strings
// read as 0, so "10"+5 == 15. A NaN result (0/0 arriving via a nested
// operator_divide) is coerced to 0 on store.
func stChangeVariableBy(ctx *EvalContext) error {
	v, ok := ctx.Variable("VARIABLE")
	if !ok {
		return nil
	}
	delta, err := ctx.InputNumber("VALUE")
	if err != nil {
		return err
	}
	cur := value.ToNumber(v.Value)
	sum := float64(cur) + float64(delta)
	if sum != sum { // NaN
		sum = 0
	}
	v.Value = value.Number(sum)
	return nil
}

func rpVariable(ctx *EvalContext) (value.Value, error) {
	v, ok := ctx.Variable("VARIABLE")
	if !ok {
		return value.String(""), nil
	}
	return v.Value, nil
}

// listIndex resolves a Scratch list index argument (a Number, or the
// keywords "first"/"last"/"random"/"any") to a 0-based Go slice index, or
// -1 if the index is out of range. Out-of-range indices (including 0,
// negative and non-integer strings) are not errors: reads return empty
// string and writes are no-ops, per spec.md §4.1 and §8 invariant 2.
func listIndex(idx value.Value, n int) int {
	if n == 0 {
		return -1
	}
	s := strings.ToLower(strings.TrimSpace(value.ToString(idx)))
	switch s {
	case "first":
		return 0
	case "last":
		return n - 1
	case "random", "any":
		return randIntn(n)
	}
	f := value.ToNumber(idx)
	i := int(f)
	if float64(i) != float64(f) || i < 1 || i > n {
		return -1
	}
	return i - 1
}

func rpItemOfList(ctx *EvalContext) (value.Value, error) {
	l, ok := ctx.List("LIST")
	if !ok {
		return value.String(""), nil
	}
	idx, err := ctx.Input("INDEX")
	if err != nil {
		return nil, err
	}
	i := listIndex(idx, len(l.List))
	if i < 0 {
		return value.String(""), nil
	}
	return l.List[i], nil
}

// rpItemNumOfList searches using Value equality (case-insensitive,
// cross-type numeric), returning a 1-based index or 0 if not found.
func rpItemNumOfList(ctx *EvalContext) (value.Value, error) {
	l, ok := ctx.List("LIST")
	if !ok {
		return value.Number(0), nil
	}
	item, err := ctx.Input("ITEM")
	if err != nil {
		return nil, err
	}
	for i, el := range l.List {
		if value.Equals(el, item) {
			return value.Number(i + 1), nil
		}
	}
	return value.Number(0), nil
}

func rpLengthOfList(ctx *EvalContext) (value.Value, error) {
	l, ok := ctx.List("LIST")
	if !ok {
		return value.Number(0), nil
	}
	return value.Number(len(l.List)), nil
}

func rpListContainsItem(ctx *EvalContext) (value.Value, error) {
	l, ok := ctx.List("LIST")
	if !ok {
		return value.Boolean(false), nil
	}
	item, err := ctx.Input("ITEM")
	if err != nil {
		return nil, err
	}
	for _, el := range l.List {
		if value.Equals(el, item) {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

// rpListContents implements spec.md §4.1's join rule: if every element is a
// single-character string, concatenate without a separator; otherwise join
// with single spaces.
func rpListContents(ctx *EvalContext) (value.Value, error) {
	l, ok := ctx.List("LIST")
	if !ok {
		return value.String(""), nil
	}
	allSingleChar := true
	for _, el := range l.List {
		s, isStr := el.(value.String)
		if !isStr || len([]rune(string(s))) != 1 {
			allSingleChar = false
			break
		}
	}
	parts := make([]string, len(l.List))
	for i, el := range l.List {
		parts[i] = value.ToString(el)
	}
	if allSingleChar {
		return value.String(strings.Join(parts, "")), nil
	}
	return value.String(strings.Join(parts, " ")), nil
}

func stAddToList(ctx *EvalContext) error {
	l, ok := ctx.List("LIST")
	if !ok {
		return nil
	}
	item, err := ctx.Input("ITEM")
	if err != nil {
		return err
	}
	l.List = append(l.List, item)
	return nil
}

func stDeleteOfList(ctx *EvalContext) error {
	l, ok := ctx.List("LIST")
	if !ok {
		return nil
	}
	idx, err := ctx.Input("INDEX")
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(value.ToString(idx)), "all") {
		l.List = nil
		return nil
	}
	i := listIndex(idx, len(l.List))
	if i < 0 {
		return nil
	}
	l.List = append(l.List[:i], l.List[i+1:]...)
	return nil
}

func stDeleteAllOfList(ctx *EvalContext) error {
	l, ok := ctx.List("LIST")
	if !ok {
		return nil
	}
	l.List = nil
	return nil
}

func stInsertAtList(ctx *EvalContext) error {
	l, ok := ctx.List("LIST")
	if !ok {
		return nil
	}
	item, err := ctx.Input("ITEM")
	if err != nil {
		return err
	}
	idxVal, err := ctx.Input("INDEX")
	if err != nil {
		return err
	}
	n := len(l.List)
	s := strings.ToLower(strings.TrimSpace(value.ToString(idxVal)))
	var i int
	switch s {
	case "first":
		i = 0
	case "last":
		i = n
	case "random", "any":
		i = randIntn(n + 1)
	default:
		f := value.ToNumber(idxVal)
		i = int(f)
		if float64(i) != float64(f) || i < 1 || i > n+1 {
			return nil
		}
		i--
	}
	l.List = append(l.List, value.String(""))
	copy(l.List[i+1:], l.List[i:])
	l.List[i] = item
	return nil
}

func stReplaceItemOfList(ctx *EvalContext) error {
	l, ok := ctx.List("LIST")
	if !ok {
		return nil
	}
	idx, err := ctx.Input("INDEX")
	if err != nil {
		return err
	}
	item, err := ctx.Input("ITEM")
	if err != nil {
		return err
	}
	i := listIndex(idx, len(l.List))
	if i < 0 {
		return nil
	}
	l.List[i] = item
	return nil
}
