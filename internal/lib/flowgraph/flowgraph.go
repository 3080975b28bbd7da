// Package flowgraph модель визуального редактора сценариев: узлы, связи и
// конфигурация узлов по типу. Сценарии не исполняются.
package flowgraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// NodeType тип узла сценария.
type NodeType string

// Типы узлов.
const (
	NodeTrigger   NodeType = "trigger"
	NodeMessage   NodeType = "message"
	NodeDelay     NodeType = "delay"
	NodeCondition NodeType = "condition"
	NodeAction    NodeType = "action"
)

var (
	ErrUnknownNodeType  = errors.New("unknown node type")
	ErrNodeNotFound     = errors.New("node not found")
	ErrUnknownConfigKey = errors.New("unknown config key")
)

// Position координаты узла на холсте.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node узел сценария.
type Node struct {
	ID       string         `json:"id"`
	Type     NodeType       `json:"type"`
	Label    string         `json:"label"`
	Position Position       `json:"position"`
	Config   map[string]any `json:"config"`
}

// Edge направленная связь между узлами.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph сценарий целиком.
type Graph struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Nodes     []Node     `json:"nodes"`
	Edges     []Edge     `json:"edges"`
	UpdatedAt time.Time  `json:"updated_at"`
	SavedAt   *time.Time `json:"saved_at,omitempty"`
}

// defaults конфигурация по умолчанию для каждого типа узла. Ключи задают схему.
var defaults = map[NodeType]map[string]any{
	NodeTrigger:   {"event": "message_received", "keyword": ""},
	NodeMessage:   {"text": "", "parse_mode": "HTML", "buttons": []any{}},
	NodeDelay:     {"duration": 5, "unit": "minutes"},
	NodeCondition: {"field": "", "operator": "equals", "value": ""},
	NodeAction:    {"action": "add_tag", "value": ""},
}

// NodeTypes возвращает все известные типы узлов.
func NodeTypes() []NodeType {
	return []NodeType{NodeTrigger, NodeMessage, NodeDelay, NodeCondition, NodeAction}
}

// DefaultConfig возвращает копию конфигурации по умолчанию для типа.
func DefaultConfig(t NodeType) (map[string]any, error) {
	def, ok := defaults[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, t)
	}
	out := make(map[string]any, len(def))
	for k, v := range def {
		if list, ok := v.([]any); ok {
			v = slices.Clone(list)
		}
		out[k] = v
	}
	return out, nil
}

// New создает пустой сценарий.
func New(name string, now time.Time) *Graph {
	return &Graph{
		ID:        uuid.NewString(),
		Name:      name,
		Nodes:     []Node{},
		Edges:     []Edge{},
		UpdatedAt: now,
	}
}

func (g *Graph) nodeIndex(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

// Node возвращает узел по id.
func (g *Graph) Node(id string) (Node, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// AddNode добавляет узел с новым id и конфигурацией по умолчанию.
// Пустая метка заменяется названием типа.
func (g *Graph) AddNode(t NodeType, label string, pos Position) (Node, error) {
	cfg, err := DefaultConfig(t)
	if err != nil {
		return Node{}, err
	}
	if label == "" {
		label = string(t)
	}
	n := Node{
		ID:       uuid.NewString(),
		Type:     t,
		Label:    label,
		Position: pos,
		Config:   cfg,
	}
	g.Nodes = append(g.Nodes, n)
	return n, nil
}

// EdgeID формирует id связи.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}

// Connect создает связь source -> target. Циклы и типы узлов не проверяются.
// Повторная связь возвращается без изменений.
func (g *Graph) Connect(source, target string) (Edge, error) {
	for _, id := range []string{source, target} {
		if g.nodeIndex(id) < 0 {
			return Edge{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	id := EdgeID(source, target)
	for _, e := range g.Edges {
		if e.ID == id {
			return e, nil
		}
	}
	e := Edge{ID: id, Source: source, Target: target}
	g.Edges = append(g.Edges, e)
	return e, nil
}

// UpdateNodeConfig сливает config с конфигурацией узла. Принимаются только
// ключи из схемы типа узла; при ошибке узел не меняется.
func (g *Graph) UpdateNodeConfig(nodeID string, config map[string]any) (Node, error) {
	i := g.nodeIndex(nodeID)
	if i < 0 {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	n := g.Nodes[i]
	schema := defaults[n.Type]
	for k := range config {
		if _, ok := schema[k]; !ok {
			return Node{}, fmt.Errorf("%w: %q for %s", ErrUnknownConfigKey, k, n.Type)
		}
	}

	merged := make(map[string]any, len(n.Config)+len(config))
	maps.Copy(merged, n.Config)
	maps.Copy(merged, config)
	n.Config = merged
	g.Nodes[i] = n
	return n, nil
}

// RemoveNode удаляет узел и все связанные с ним связи.
func (g *Graph) RemoveNode(nodeID string) error {
	i := g.nodeIndex(nodeID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	g.Nodes = slices.Delete(g.Nodes, i, i+1)
	g.Edges = slices.DeleteFunc(g.Edges, func(e Edge) bool {
		return e.Source == nodeID || e.Target == nodeID
	})
	return nil
}
