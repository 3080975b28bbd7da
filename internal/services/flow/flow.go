// Package flow хранит сценарии редактора для профиля.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/metrics"
)

const namespace = "flows"

// ErrFlowNotFound сценарий не найден.
var ErrFlowNotFound = errors.New("flow not found")

// StateStore хранилище JSON-состояния.
type StateStore interface {
	Load(ctx context.Context, namespace, key string, out any) (bool, error)
	Save(ctx context.Context, namespace, key string, value any) error
	List(ctx context.Context, namespace, prefix string) ([][]byte, error)
}

// Service реализует операции редактора сценариев.
type Service struct {
	store StateStore
	now   func() time.Time
	log   *slog.Logger
	mu    sync.Mutex
}

// NewService создает новый экземпляр Service.
func NewService(store StateStore, log *slog.Logger) *Service {
	return &Service{store: store, now: time.Now, log: log}
}

func prefix(profileID string) string {
	return "flow:" + profileID + ":"
}

func key(profileID, flowID string) string {
	return prefix(profileID) + flowID
}

// Create создает пустой сценарий.
func (s *Service) Create(ctx context.Context, profileID, name string) (*flowgraph.Graph, error) {
	const op = "services.flow.Create"
	g := flowgraph.New(name, s.now().UTC())
	if err := s.store.Save(ctx, namespace, key(profileID, g.ID), g); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("flow created", slog.String("profile_id", profileID), slog.String("flow_id", g.ID))
	return g, nil
}

// Get возвращает сценарий по id.
func (s *Service) Get(ctx context.Context, profileID, flowID string) (*flowgraph.Graph, error) {
	const op = "services.flow.Get"
	var g flowgraph.Graph
	found, err := s.store.Load(ctx, namespace, key(profileID, flowID), &g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrFlowNotFound)
	}
	return &g, nil
}

// List возвращает сценарии профиля, новые первыми.
func (s *Service) List(ctx context.Context, profileID string) ([]flowgraph.Graph, error) {
	const op = "services.flow.List"
	raw, err := s.store.List(ctx, namespace, prefix(profileID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]flowgraph.Graph, 0, len(raw))
	for _, b := range raw {
		var g flowgraph.Graph
		if err := json.Unmarshal(b, &g); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// edit загружает сценарий, применяет fn и сохраняет результат.
func (s *Service) edit(ctx context.Context, profileID, flowID string, fn func(g *flowgraph.Graph) error) (*flowgraph.Graph, error) {
	const op = "services.flow.edit"
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.Get(ctx, profileID, flowID)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	g.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, namespace, key(profileID, flowID), g); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

// AddNode добавляет узел заданного типа.
func (s *Service) AddNode(ctx context.Context, profileID, flowID string, t flowgraph.NodeType, label string, pos flowgraph.Position) (flowgraph.Node, error) {
	var n flowgraph.Node
	_, err := s.edit(ctx, profileID, flowID, func(g *flowgraph.Graph) error {
		var err error
		n, err = g.AddNode(t, label, pos)
		return err
	})
	return n, err
}

// Connect соединяет два узла.
func (s *Service) Connect(ctx context.Context, profileID, flowID, source, target string) (flowgraph.Edge, error) {
	var e flowgraph.Edge
	_, err := s.edit(ctx, profileID, flowID, func(g *flowgraph.Graph) error {
		var err error
		e, err = g.Connect(source, target)
		return err
	})
	return e, err
}

// UpdateNodeConfig обновляет конфигурацию узла.
func (s *Service) UpdateNodeConfig(ctx context.Context, profileID, flowID, nodeID string, config map[string]any) (flowgraph.Node, error) {
	var n flowgraph.Node
	_, err := s.edit(ctx, profileID, flowID, func(g *flowgraph.Graph) error {
		var err error
		n, err = g.UpdateNodeConfig(nodeID, config)
		return err
	})
	return n, err
}

// RemoveNode удаляет узел вместе со связями.
func (s *Service) RemoveNode(ctx context.Context, profileID, flowID, nodeID string) error {
	_, err := s.edit(ctx, profileID, flowID, func(g *flowgraph.Graph) error {
		return g.RemoveNode(nodeID)
	})
	return err
}

// Save фиксирует сценарий и отмечает время сохранения.
func (s *Service) Save(ctx context.Context, profileID, flowID string) (*flowgraph.Graph, error) {
	g, err := s.edit(ctx, profileID, flowID, func(g *flowgraph.Graph) error {
		at := s.now().UTC()
		g.SavedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveFlowSave()
	s.log.Info("flow saved",
		slog.String("profile_id", profileID),
		slog.String("flow_id", flowID),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)),
	)
	return g, nil
}
