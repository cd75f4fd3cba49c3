// Package codec converts between stored command parameters and traversable value trees.
package codec

import (
	"reflect"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reserved keys of the stored representation.
const (
	KeyType      = "__type"
	KeyOp        = "__op"
	KeyClassName = "className"
	KeyObjectID  = "objectId"
	KeyLocalID   = "localId"
	KeyObjects   = "objects"

	TypePointer = "Pointer"
)

var (
	_ ports.Decoder = (*Codec)(nil)
	_ ports.Encoder = (*Codec)(nil)
)

// Codec implements ports.Decoder and ports.Encoder for the JSON-compatible stored form.
//
// Object references are stored as {"__type": "Pointer", "className": C, "objectId": ID}
// when the server id is known and with "localId" instead of "objectId" otherwise.
// Add, AddUnique and Remove operations are stored as {"__op": K, "objects": [...]};
// any further keys of such an operation are kept verbatim in FieldOp.Extra.
type Codec struct{}

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// Decode converts stored parameters into a value tree.
func (c *Codec) Decode(parameters map[string]any) (domain.Map, error) {
	if parameters == nil {
		return nil, nil
	}
	return c.decodeMap(parameters)
}

func (c *Codec) decodeMap(m map[string]any) (domain.Map, error) {
	out := make(domain.Map, len(m))
	for key, raw := range m {
		v, err := c.decodeValue(raw)
		if err != nil {
			return nil, zerr.With(err, "key", key)
		}
		out[key] = v
	}
	return out, nil
}

func (c *Codec) decodeList(l []any) (domain.List, error) {
	out := make(domain.List, len(l))
	for i, raw := range l {
		v, err := c.decodeValue(raw)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		out[i] = v
	}
	return out, nil
}

func (c *Codec) decodeValue(raw any) (domain.Value, error) {
	switch t := raw.(type) {
	case nil:
		return domain.Scalar{}, nil
	case map[string]any:
		return c.decodeObject(t)
	case []any:
		return c.decodeList(t)
	}

	// Typed containers built in code rather than decoded from JSON.
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		l := make([]any, rv.Len())
		for i := range rv.Len() {
			l[i] = rv.Index(i).Interface()
		}
		return c.decodeList(l)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return c.decodeObject(m)
		}
	}

	if err := domain.ValidateStored(raw); err != nil {
		return nil, err
	}
	return domain.Scalar{V: raw}, nil
}

func (c *Codec) decodeObject(m map[string]any) (domain.Value, error) {
	if typ, ok := m[KeyType].(string); ok && typ == TypePointer {
		return decodePointer(m)
	}

	if name, ok := m[KeyOp].(string); ok {
		if kind, known := domain.ParseOpKind(name); known {
			return c.decodeFieldOp(kind, m)
		}
	}

	return c.decodeMap(m)
}

func (c *Codec) decodeFieldOp(kind domain.OpKind, m map[string]any) (domain.Value, error) {
	op := domain.FieldOp{Op: kind}

	if raw, ok := m[KeyObjects]; ok {
		objects, err := c.decodeOpObjects(raw)
		if err != nil {
			return nil, zerr.With(err, "op", string(kind))
		}
		op.Objects = objects
	}

	for key, raw := range m {
		if key == KeyOp || key == KeyObjects {
			continue
		}
		v, err := c.decodeValue(raw)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "op", string(kind)), "key", key)
		}
		if op.Extra == nil {
			op.Extra = domain.Map{}
		}
		op.Extra[key] = v
	}
	return op, nil
}

func (c *Codec) decodeOpObjects(raw any) (domain.List, error) {
	switch t := raw.(type) {
	case nil:
		return domain.List{}, nil
	case []any:
		return c.decodeList(t)
	default:
		v, err := c.decodeValue(raw)
		if err != nil {
			return nil, err
		}
		if l, ok := v.(domain.List); ok {
			return l, nil
		}
		return nil, zerr.Wrap(domain.ErrEncodingFailure, "field operation objects must be a list")
	}
}

func decodePointer(m map[string]any) (domain.Value, error) {
	className, _ := m[KeyClassName].(string)
	if className == "" {
		return nil, zerr.Wrap(domain.ErrEncodingFailure, "pointer without class name")
	}

	if objectID, _ := m[KeyObjectID].(string); objectID != "" {
		return domain.Pointer{ClassName: className, ObjectID: objectID}, nil
	}
	if localID, _ := m[KeyLocalID].(string); localID != "" {
		return &domain.Placeholder{ClassName: className, LocalID: localID}, nil
	}

	return nil, zerr.With(zerr.Wrap(domain.ErrEncodingFailure, "pointer without object id or local id"), "class_name", className)
}

// Encode converts a value tree into stored parameters.
func (c *Codec) Encode(tree domain.Map) (map[string]any, error) {
	if tree == nil {
		return nil, nil
	}
	return c.encodeMap(tree)
}

func (c *Codec) encodeMap(m domain.Map) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, v := range m {
		raw, err := c.encodeValue(v)
		if err != nil {
			return nil, zerr.With(err, "key", key)
		}
		out[key] = raw
	}
	return out, nil
}

func (c *Codec) encodeList(l domain.List) ([]any, error) {
	out := make([]any, len(l))
	for i, v := range l {
		raw, err := c.encodeValue(v)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		out[i] = raw
	}
	return out, nil
}

func (c *Codec) encodeValue(v domain.Value) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case domain.Scalar:
		if err := domain.ValidateStored(n.V); err != nil {
			return nil, err
		}
		return n.V, nil
	case domain.Map:
		return c.encodeMap(n)
	case domain.List:
		return c.encodeList(n)
	case domain.Pointer:
		return encodePointer(n.ClassName, KeyObjectID, n.ObjectID)
	case *domain.Placeholder:
		if n == nil {
			return nil, nil
		}
		if n.Resolved() {
			return encodePointer(n.ClassName, KeyObjectID, n.ObjectID)
		}
		return encodePointer(n.ClassName, KeyLocalID, n.LocalID)
	case domain.FieldOp:
		return c.encodeFieldOp(n)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrEncodingFailure, "unsupported value kind"), "kind", v.Kind().String())
	}
}

func (c *Codec) encodeFieldOp(op domain.FieldOp) (map[string]any, error) {
	out, err := c.encodeMap(op.Extra)
	if err != nil {
		return nil, zerr.With(err, "op", string(op.Op))
	}
	out[KeyOp] = string(op.Op)

	if op.Objects != nil {
		objects, err := c.encodeList(op.Objects)
		if err != nil {
			return nil, zerr.With(err, "op", string(op.Op))
		}
		out[KeyObjects] = objects
	}
	return out, nil
}

func encodePointer(className, idKey, id string) (map[string]any, error) {
	if className == "" || id == "" {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrEncodingFailure, "object reference is incomplete"),
			"class_name", className), idKey, id)
	}
	return map[string]any{
		KeyType:      TypePointer,
		KeyClassName: className,
		idKey:        id,
	}, nil
}
