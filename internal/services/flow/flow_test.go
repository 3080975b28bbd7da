package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/botcatalog/internal/cache"
	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/lib/statestore"
	"github.com/magabrotheeeer/botcatalog/internal/storage"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := statestore.New(storage.NewMemory(), cache.Noop{}, time.Hour, newNoopLogger())
	svc := NewService(store, newNoopLogger())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return svc
}

func TestService_EditAndSave(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, "alice", "onboarding")
	require.NoError(t, err)

	trig, err := svc.AddNode(ctx, "alice", g.ID, flowgraph.NodeTrigger, "start", flowgraph.Position{X: 0, Y: 0})
	require.NoError(t, err)
	msg, err := svc.AddNode(ctx, "alice", g.ID, flowgraph.NodeMessage, "hello", flowgraph.Position{X: 200, Y: 0})
	require.NoError(t, err)

	e, err := svc.Connect(ctx, "alice", g.ID, trig.ID, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, flowgraph.EdgeID(trig.ID, msg.ID), e.ID)

	n, err := svc.UpdateNodeConfig(ctx, "alice", g.ID, msg.ID, map[string]any{"text": "Добро пожаловать"})
	require.NoError(t, err)
	assert.Equal(t, "Добро пожаловать", n.Config["text"])

	saved, err := svc.Save(ctx, "alice", g.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.SavedAt)

	got, err := svc.Get(ctx, "alice", g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 2)
	assert.Len(t, got.Edges, 1)
	assert.Equal(t, "onboarding", got.Name)
	node, ok := got.Node(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "Добро пожаловать", node.Config["text"])
}

func TestService_RemoveNode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, "alice", "f")
	require.NoError(t, err)
	a, _ := svc.AddNode(ctx, "alice", g.ID, flowgraph.NodeTrigger, "", flowgraph.Position{})
	b, _ := svc.AddNode(ctx, "alice", g.ID, flowgraph.NodeAction, "", flowgraph.Position{})
	_, err = svc.Connect(ctx, "alice", g.ID, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveNode(ctx, "alice", g.ID, b.ID))

	got, err := svc.Get(ctx, "alice", g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 1)
	assert.Empty(t, got.Edges)
}

func TestService_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrFlowNotFound)

	_, err = svc.AddNode(ctx, "alice", "missing", flowgraph.NodeTrigger, "", flowgraph.Position{})
	assert.ErrorIs(t, err, ErrFlowNotFound)

	g, err := svc.Create(ctx, "alice", "f")
	require.NoError(t, err)

	_, err = svc.AddNode(ctx, "alice", g.ID, "webhook", "", flowgraph.Position{})
	assert.ErrorIs(t, err, flowgraph.ErrUnknownNodeType)

	_, err = svc.Connect(ctx, "alice", g.ID, "a", "b")
	assert.ErrorIs(t, err, flowgraph.ErrNodeNotFound)

	_, err = svc.Get(ctx, "bob", g.ID)
	assert.ErrorIs(t, err, ErrFlowNotFound, "flows are scoped to the profile")
}

func TestService_ListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", "first")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "alice", "second")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "other")
	require.NoError(t, err)

	flows, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, second.ID, flows[0].ID)
	assert.Equal(t, first.ID, flows[1].ID)
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) Load(ctx context.Context, namespace, key string, out any) (bool, error) {
	args := m.Called(ctx, namespace, key, out)
	return args.Bool(0), args.Error(1)
}
func (m *StoreMock) Save(ctx context.Context, namespace, key string, value any) error {
	return m.Called(ctx, namespace, key, value).Error(0)
}
func (m *StoreMock) List(ctx context.Context, namespace, prefix string) ([][]byte, error) {
	args := m.Called(ctx, namespace, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]byte), args.Error(1)
}

func TestService_StorageErrors(t *testing.T) {
	store := new(StoreMock)
	store.On("Save", mock.Anything, namespace, mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
	store.On("List", mock.Anything, namespace, "flow:alice:").Return([][]byte{[]byte("not-json")}, nil).Once()
	svc := NewService(store, newNoopLogger())

	_, err := svc.Create(context.Background(), "alice", "f")
	assert.Error(t, err)

	_, err = svc.List(context.Background(), "alice")
	assert.Error(t, err)

	store.AssertExpectations(t)
}
