package domain

// Kind identifies the variant of a Value.
type Kind uint8

const (
	// KindScalar is a leaf JSON value: null, bool, number or string.
	KindScalar Kind = iota
	// KindMap is a mapping of string keys to values.
	KindMap
	// KindList is an ordered sequence of values.
	KindList
	// KindPlaceholder is a reference to an object by local id.
	KindPlaceholder
	// KindPointer is a reference to an object that already has a server id.
	KindPointer
	// KindFieldOp is a field operation (Add, AddUnique, Remove) wrapping a list of values.
	KindFieldOp
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindPlaceholder:
		return "placeholder"
	case KindPointer:
		return "pointer"
	case KindFieldOp:
		return "field_op"
	default:
		return "unknown"
	}
}

// Value is a node of a decoded parameter tree.
// The set of implementations is closed: Scalar, Map, List, *Placeholder, Pointer and FieldOp.
type Value interface {
	Kind() Kind
	sealed()
}

// Scalar wraps a JSON leaf value.
type Scalar struct {
	V any
}

// Map is a mapping of string keys to values.
type Map map[string]Value

// List is an ordered sequence of values.
type List []Value

// Placeholder references an object that had no server id when the command was created.
// It is resolved once ObjectID is set.
type Placeholder struct {
	ClassName string
	LocalID   string
	ObjectID  string
}

// Resolved reports whether the placeholder carries a server id.
func (p *Placeholder) Resolved() bool {
	return p.ObjectID != ""
}

// WithObjectID returns a copy of the placeholder carrying the given server id.
func (p *Placeholder) WithObjectID(objectID string) *Placeholder {
	return &Placeholder{
		ClassName: p.ClassName,
		LocalID:   p.LocalID,
		ObjectID:  objectID,
	}
}

// Pointer references an object by its server id.
type Pointer struct {
	ClassName string
	ObjectID  string
}

// OpKind is the kind of a field operation.
type OpKind string

const (
	// OpAdd appends elements to an array field.
	OpAdd OpKind = "Add"
	// OpAddUnique appends elements not already present in an array field.
	OpAddUnique OpKind = "AddUnique"
	// OpRemove removes elements from an array field.
	OpRemove OpKind = "Remove"
)

// ParseOpKind returns the OpKind named by s, if any.
func ParseOpKind(s string) (OpKind, bool) {
	switch k := OpKind(s); k {
	case OpAdd, OpAddUnique, OpRemove:
		return k, true
	}
	return "", false
}

// FieldOp is a field-level mutation whose element list may contain placeholders.
type FieldOp struct {
	Op OpKind
	// Objects is nil when the stored operation has no element list.
	Objects List
	// Extra holds any other keys of the stored operation. It is carried through
	// unchanged and never walked.
	Extra Map
}

func (Scalar) Kind() Kind       { return KindScalar }
func (Map) Kind() Kind          { return KindMap }
func (List) Kind() Kind         { return KindList }
func (*Placeholder) Kind() Kind { return KindPlaceholder }
func (Pointer) Kind() Kind      { return KindPointer }
func (FieldOp) Kind() Kind      { return KindFieldOp }

func (Scalar) sealed()       {}
func (Map) sealed()          {}
func (List) sealed()         {}
func (*Placeholder) sealed() {}
func (Pointer) sealed()      {}
func (FieldOp) sealed()      {}
