package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/courier/internal/core/domain"
)

func resolveTo(ids map[string]string) domain.Visitor {
	return func(p *domain.Placeholder) (domain.Value, error) {
		id, ok := ids[p.LocalID]
		if !ok {
			return nil, errors.New("unknown " + p.LocalID)
		}
		return p.WithObjectID(id), nil
	}
}

func failVisitor(t *testing.T) domain.Visitor {
	return func(p *domain.Placeholder) (domain.Value, error) {
		t.Fatalf("visitor called for %s", p.LocalID)
		return nil, nil
	}
}

func TestWalk_NoPlaceholders(t *testing.T) {
	tree := domain.Map{
		"name":  domain.Scalar{V: "foo"},
		"list":  domain.List{domain.Scalar{V: 1.0}, domain.Scalar{V: true}},
		"owner": domain.Pointer{ClassName: "_User", ObjectID: "u1"},
		"tags":  domain.FieldOp{Op: domain.OpAddUnique, Objects: domain.List{domain.Scalar{V: "x"}}},
		"empty": nil,
	}

	out, modified, err := domain.Walk(tree, failVisitor(t))
	require.NoError(t, err)
	assert.False(t, modified)
	assert.Equal(t, tree, out)
}

func TestWalk_ResolvedPlaceholderIsLeaf(t *testing.T) {
	p := &domain.Placeholder{ClassName: "Foo", LocalID: "L1", ObjectID: "srv1"}

	out, modified, err := domain.Walk(domain.List{p}, failVisitor(t))
	require.NoError(t, err)
	assert.False(t, modified)
	assert.Same(t, p, out.(domain.List)[0])
}

func TestWalk_NestedFieldOpKeepsKind(t *testing.T) {
	tree := domain.Map{
		"items": domain.FieldOp{
			Op:      domain.OpAdd,
			Objects: domain.List{&domain.Placeholder{ClassName: "Item", LocalID: "L3"}},
		},
	}

	out, modified, err := domain.Walk(tree, resolveTo(map[string]string{"L3": "srv9"}))
	require.NoError(t, err)
	assert.True(t, modified)

	op, ok := out.(domain.Map)["items"].(domain.FieldOp)
	require.True(t, ok)
	assert.Equal(t, domain.OpAdd, op.Op)
	require.Len(t, op.Objects, 1)
	assert.Equal(t, &domain.Placeholder{ClassName: "Item", LocalID: "L3", ObjectID: "srv9"}, op.Objects[0])
}

func TestWalk_CopyOnWrite(t *testing.T) {
	shared := domain.List{domain.Scalar{V: "untouched"}}
	original := &domain.Placeholder{ClassName: "Foo", LocalID: "L1"}
	tree := domain.Map{
		"ref":    domain.List{original, domain.Scalar{V: 2.0}},
		"shared": shared,
	}

	out, modified, err := domain.Walk(tree, resolveTo(map[string]string{"L1": "srv1"}))
	require.NoError(t, err)
	assert.True(t, modified)

	// Input is not mutated.
	assert.Same(t, original, tree["ref"].(domain.List)[0])
	assert.Empty(t, original.ObjectID)

	outMap := out.(domain.Map)
	assert.Equal(t, "srv1", outMap["ref"].(domain.List)[0].(*domain.Placeholder).ObjectID)
	assert.Equal(t, domain.Scalar{V: 2.0}, outMap["ref"].(domain.List)[1])

	// Unmodified subtrees are shared.
	assert.Same(t, &shared[0], &outMap["shared"].(domain.List)[0])
}

func TestWalk_FirstErrorWins(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var visited []string

	tree := domain.Map{
		"b": &domain.Placeholder{ClassName: "Foo", LocalID: "LB"},
		"a": domain.List{
			domain.Scalar{V: "x"},
			&domain.Placeholder{ClassName: "Foo", LocalID: "LA"},
		},
	}

	_, modified, err := domain.Walk(tree, func(p *domain.Placeholder) (domain.Value, error) {
		visited = append(visited, p.LocalID)
		if p.LocalID == "LA" {
			return nil, errA
		}
		return nil, errB
	})

	assert.False(t, modified)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"LA"}, visited, "traversal stops at the first error")
}

func TestWalk_ListOrder(t *testing.T) {
	var visited []string
	tree := domain.List{
		&domain.Placeholder{LocalID: "L1"},
		domain.Map{"z": &domain.Placeholder{LocalID: "L3"}, "y": &domain.Placeholder{LocalID: "L2"}},
		domain.FieldOp{Op: domain.OpRemove, Objects: domain.List{&domain.Placeholder{LocalID: "L4"}}},
	}

	_, modified, err := domain.Walk(tree, func(p *domain.Placeholder) (domain.Value, error) {
		visited = append(visited, p.LocalID)
		return p.WithObjectID("srv"), nil
	})

	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, []string{"L1", "L2", "L3", "L4"}, visited)
}

func TestWalk_Scalar(t *testing.T) {
	out, modified, err := domain.Walk(domain.Scalar{V: "x"}, failVisitor(t))
	require.NoError(t, err)
	assert.False(t, modified)
	assert.Equal(t, domain.Scalar{V: "x"}, out)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "field_op", domain.FieldOp{}.Kind().String())
	assert.Equal(t, "placeholder", (&domain.Placeholder{}).Kind().String())
	assert.Equal(t, domain.KindMap, domain.Map{}.Kind())
}

func TestParseOpKind(t *testing.T) {
	k, ok := domain.ParseOpKind("AddUnique")
	assert.True(t, ok)
	assert.Equal(t, domain.OpAddUnique, k)

	_, ok = domain.ParseOpKind("Increment")
	assert.False(t, ok)
}
