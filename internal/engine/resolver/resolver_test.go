package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/courier/internal/adapters/codec"
	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports/mocks"
	"go.trai.ch/courier/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store *mocks.MockLocalIDStore
	log   *mocks.MockLogger
	r     *resolver.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalIDStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	c := codec.New()
	return &fixture{
		store: store,
		log:   log,
		r:     resolver.New(store, c, c, log),
	}
}

func (f *fixture) mapping(localID, objectID string) {
	f.store.EXPECT().ObjectIDForLocalID(gomock.Any(), localID).Return(objectID, true, nil).AnyTimes()
}

func (f *fixture) missing(localID string) {
	f.store.EXPECT().ObjectIDForLocalID(gomock.Any(), localID).Return("", false, nil).AnyTimes()
}

func pointerToLocal(className, localID string) map[string]any {
	return map[string]any{"__type": "Pointer", "className": className, "localId": localID}
}

func pointerToObject(className, objectID string) map[string]any {
	return map[string]any{"__type": "Pointer", "className": className, "objectId": objectID}
}

func TestResolve_CreateStaysCreate(t *testing.T) {
	f := newFixture(t)
	f.missing("L1")

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, map[string]any{"name": "x"}, "")
	cmd.LocalID = "L1"

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))

	assert.Equal(t, "L1", cmd.LocalID)
	assert.Equal(t, "classes/Foo", cmd.Path)
	assert.Equal(t, domain.MethodPost, cmd.Method)
	assert.Equal(t, map[string]any{"name": "x"}, cmd.Parameters)
}

func TestResolve_CreateBecomesUpdate(t *testing.T) {
	f := newFixture(t)
	f.mapping("L1", "srv123")

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, nil, "")
	cmd.LocalID = "L1"

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))

	assert.Empty(t, cmd.LocalID)
	assert.Equal(t, "classes/Foo/srv123", cmd.Path)
	assert.Equal(t, domain.MethodPut, cmd.Method)
}

func TestResolve_DeleteOfUncreatedObject(t *testing.T) {
	f := newFixture(t)
	f.missing("L2")
	f.log.EXPECT().Error(gomock.Any()).Times(1)

	cmd := domain.NewCommand("classes/Foo", domain.MethodDelete, nil, "")
	cmd.LocalID = "L2"

	err := f.r.ResolveLocalIDs(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConsistencyViolation))
	assert.Equal(t, "L2", cmd.LocalID)
	assert.Equal(t, "classes/Foo", cmd.Path)
}

func TestResolve_DeleteOfCreatedObject(t *testing.T) {
	f := newFixture(t)
	f.mapping("L2", "srv2")

	cmd := domain.NewDeleteObjectCommand("Foo", "", "", "L2")

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))
	assert.Empty(t, cmd.LocalID)
	assert.Equal(t, "classes/Foo/srv2", cmd.Path)
	assert.Equal(t, domain.MethodDelete, cmd.Method)
}

func TestResolve_ObjectPathKeepsSegments(t *testing.T) {
	f := newFixture(t)
	f.mapping("L1", "srv1")

	cmd := domain.NewCommand("classes/Foo/existing", domain.MethodPost, nil, "")
	cmd.LocalID = "L1"

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))
	assert.Equal(t, "classes/Foo/existing", cmd.Path)
	assert.Equal(t, domain.MethodPut, cmd.Method)
}

func TestResolve_CollectionPathWithSlashes(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"classes/Foo/", "classes/Foo/srv1"},
		{"/classes/Foo", "/classes/Foo/srv1"},
		{"/classes/Foo/", "/classes/Foo/srv1"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t)
			f.mapping("L1", "srv1")

			cmd := domain.NewCommand(tt.path, domain.MethodPost, nil, "")
			cmd.LocalID = "L1"

			require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))
			assert.Equal(t, tt.want, cmd.Path)
			assert.Equal(t, domain.MethodPut, cmd.Method)
		})
	}
}

func TestResolve_NonClassesPathKeepsMethod(t *testing.T) {
	f := newFixture(t)
	f.mapping("L1", "srv1")

	cmd := domain.NewCommand("users/me", domain.MethodPost, nil, "")
	cmd.LocalID = "L1"

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))
	assert.Equal(t, "users/me/srv1", cmd.Path)
	assert.Equal(t, domain.MethodPost, cmd.Method)
}

func TestResolve_NestedAddOperation(t *testing.T) {
	f := newFixture(t)
	f.mapping("L3", "srv9")

	cmd := domain.NewUpdateObjectCommand("List", "abc", map[string]any{
		"items": map[string]any{
			"__op":    "Add",
			"objects": []any{pointerToLocal("Item", "L3")},
		},
		"title": "groceries",
	}, "r:tok")

	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))

	assert.Equal(t, map[string]any{
		"items": map[string]any{
			"__op":    "Add",
			"objects": []any{pointerToObject("Item", "srv9")},
		},
		"title": "groceries",
	}, cmd.Parameters)
	assert.Equal(t, domain.MethodPut, cmd.Method)
	assert.Equal(t, "classes/List/abc", cmd.Path)
}

func TestResolve_FirstErrorWins(t *testing.T) {
	f := newFixture(t)
	errA := errors.New("store failed for A")
	errB := errors.New("store failed for B")

	// "a" sorts before "b", so LA is visited first and LB never.
	f.store.EXPECT().ObjectIDForLocalID(gomock.Any(), "LA").Return("", false, errA).Times(1)
	f.store.EXPECT().ObjectIDForLocalID(gomock.Any(), "LB").Return("", false, errB).Times(0)
	f.log.EXPECT().Error(gomock.Any()).Times(1)

	params := map[string]any{
		"b": pointerToLocal("Foo", "LB"),
		"a": []any{"x", pointerToLocal("Foo", "LA")},
	}
	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, params, "")

	err := f.r.ResolveLocalIDs(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResolutionFailure))
	assert.True(t, errors.Is(err, errA))
	assert.False(t, errors.Is(err, errB))
	assert.Equal(t, pointerToLocal("Foo", "LB"), cmd.Parameters["b"], "parameters are untouched on failure")
}

func TestResolve_MissingReferencedObject(t *testing.T) {
	f := newFixture(t)
	f.missing("L9")
	f.log.EXPECT().Error(gomock.Any()).Times(1)

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, map[string]any{
		"owner": pointerToLocal("_User", "L9"),
	}, "")

	err := f.r.ResolveLocalIDs(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResolutionFailure))
	assert.True(t, errors.Is(err, domain.ErrLocalIDNotFound))
}

func TestResolve_FailedParametersSkipRewrite(t *testing.T) {
	f := newFixture(t)
	f.missing("L9")
	f.log.EXPECT().Error(gomock.Any()).Times(1)

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, map[string]any{
		"owner": pointerToLocal("_User", "L9"),
	}, "")
	cmd.LocalID = "L1"

	require.Error(t, f.r.ResolveLocalIDs(context.Background(), cmd))
	assert.Equal(t, "L1", cmd.LocalID)
	assert.Equal(t, domain.MethodPost, cmd.Method)
}

func TestResolve_NoPlaceholdersSkipsEncode(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalIDStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	enc := mocks.NewMockEncoder(ctrl)
	enc.EXPECT().Encode(gomock.Any()).Times(0)

	params := map[string]any{
		"owner": pointerToObject("_User", "u1"),
		"tags":  map[string]any{"__op": "AddUnique", "objects": []any{"a"}},
	}
	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, params, "")

	r := resolver.New(store, codec.New(), enc, log)
	require.NoError(t, r.ResolveLocalIDs(context.Background(), cmd))
	assert.Equal(t, params, cmd.Parameters)
}

func TestResolve_EncoderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalIDStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	enc := mocks.NewMockEncoder(ctrl)

	store.EXPECT().ObjectIDForLocalID(gomock.Any(), "L1").Return("srv1", true, nil)
	enc.EXPECT().Encode(gomock.Any()).Return(nil, errors.New("boom"))
	log.EXPECT().Error(gomock.Any()).Times(1)

	params := map[string]any{"owner": pointerToLocal("_User", "L1")}
	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, params, "")

	err := resolver.New(store, codec.New(), enc, log).ResolveLocalIDs(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncodingFailure))
	assert.Equal(t, pointerToLocal("_User", "L1"), cmd.Parameters["owner"])
}

func TestResolve_DecoderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalIDStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	dec := mocks.NewMockDecoder(ctrl)

	dec.EXPECT().Decode(gomock.Any()).Return(nil, errors.New("bad token"))
	log.EXPECT().Error(gomock.Any()).Times(1)

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, map[string]any{"x": 1}, "")

	err := resolver.New(store, dec, codec.New(), log).ResolveLocalIDs(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncodingFailure))
}

func TestResolve_StoreFailureOnOwnID(t *testing.T) {
	f := newFixture(t)
	storeErr := errors.New("disk on fire")
	f.store.EXPECT().ObjectIDForLocalID(gomock.Any(), "L1").Return("", false, storeErr)
	f.log.EXPECT().Error(gomock.Any()).Times(1)

	cmd := domain.NewCommand("classes/Foo", domain.MethodPost, nil, "")
	cmd.LocalID = "L1"

	err := f.r.ResolveLocalIDs(context.Background(), cmd)
	assert.True(t, errors.Is(err, domain.ErrResolutionFailure))
	assert.True(t, errors.Is(err, storeErr))
}

func TestResolve_NoLocalIDsAtAll(t *testing.T) {
	f := newFixture(t)

	cmd := domain.NewFetchObjectCommand("Foo", "abc", "")
	require.NoError(t, f.r.ResolveLocalIDs(context.Background(), cmd))
	assert.Equal(t, "classes/Foo/abc", cmd.Path)
	assert.Equal(t, domain.MethodGet, cmd.Method)
}
