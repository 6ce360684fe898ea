// Package value implements the Scratch value domain: the small closed set
// of tagged variants every reporter produces and every input coerces to,
// along with the implicit conversions Scratch performs between them.
package value

import "fmt"

// Value is the interface implemented by every value the block semantics
// library and the scheduler manipulate. Unlike a general-purpose language
// runtime, the Scratch value domain is closed: Number, String, Boolean and
// ListRef are the only variants, so Value carries no extension points.
type Value interface {
	// String returns the display/coercion representation of the value.
	String() string
	// Type returns a short string naming the value's kind, for diagnostics.
	Type() string
}

// Number is a double-precision floating point value. NaN is a distinct bit
// pattern but coerces to 0 in arithmetic contexts (see ToNumber).
type Number float64

// String is a Unicode text value.
type String string

// Boolean is a true/false value.
type Boolean bool

var (
	_ Value = Number(0)
	_ Value = String("")
	_ Value = Boolean(false)
)

func (n Number) Type() string  { return "number" }
func (s String) Type() string  { return "string" }
func (b Boolean) Type() string { return "boolean" }

func (n Number) String() string  { return ToString(n) }
func (s String) String() string  { return string(s) }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// ListRef is a handle to a mutable list; it is never copied by value the way
// Number/String/Boolean are. Only a reference to the backing list travels
// through inputs, matching spec.md's "list values are not first-class
// arguments" rule: reporters that read a list return a Number/String, never
// a ListRef. The data_* blocks in lang/ops reach their list through the
// LIST field's *project.Variable rather than a ListRef, and no code in this
// module builds one.
type ListRef struct {
	Name string
	Get  func() []Value
}

func (l ListRef) Type() string { return "list" }
func (l ListRef) String() string {
	return fmt.Sprintf("list(%s)", l.Name)
}
