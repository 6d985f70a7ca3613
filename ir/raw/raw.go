// Package raw is the in-memory PDF object graph: direct objects, streams and
// the indirect references that tie them together.
package raw

import "fmt"

// ObjectRef names an indirect object by number and generation.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// IsZero reports whether r is the zero reference. Object 0 is always free.
func (r ObjectRef) IsZero() bool { return r.Num == 0 && r.Gen == 0 }

// Object is implemented by every node of the graph. Type returns the PDF
// object kind in lower case ("dict", "stream", "ref" ...).
type Object interface {
	Type() string
	IsIndirect() bool
}

// Dictionary is the read/write view of a dictionary shared by plain
// dictionaries and stream dictionaries.
type Dictionary interface {
	Object
	Get(key Name) (Object, bool)
	Set(key Name, value Object)
	Keys() []Name
	Len() int
}

// Name is any object usable as a dictionary key.
type Name interface {
	Object
	Value() string
}
