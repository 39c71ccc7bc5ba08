package canvas

import (
	"encoding/json"
	"math"

	"netlab/pkg/sdk"

	"github.com/google/uuid"
)

// DragMarker identifies a palette drag payload as a device-node drag; a
// payload without it is ignored on drop.
const DragMarker = "netlab/device-node"

type DragPayload struct {
	Marker string           `json:"marker"`
	Config sdk.DeviceConfig `json:"config"`
}

func EncodeDragPayload(cfg sdk.DeviceConfig) []byte {
	data, _ := json.Marshal(DragPayload{Marker: DragMarker, Config: cfg})
	return data
}

// DecodeDragPayload returns the carried device config, or false for a
// missing, unparseable, or foreign payload.
func DecodeDragPayload(data []byte) (*sdk.DeviceConfig, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var payload DragPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Marker != DragMarker {
		return nil, false
	}
	return &payload.Config, true
}

type Node struct {
	ID             string
	DeviceConfigID uint
	Label          string
	HostnameIP     string
	IconPath       string
	X              float64
	Y              float64
}

type Edge struct {
	ID     string
	Source string
	Target string
}

// Canvas is the in-memory node/edge state for one active topology. It is
// owned by a single editor at a time; all mutation happens through its
// methods in response to UI events.
type Canvas struct {
	Nodes []Node
	Edges []Edge
}

func New() *Canvas {
	return &Canvas{}
}

func (c *Canvas) Clear() {
	c.Nodes = nil
	c.Edges = nil
}

// Drop appends one node for the given device config at the drop position
// and returns it. Node ids are UUIDs so collisions cannot occur across
// drops or loaded topologies.
func (c *Canvas) Drop(cfg sdk.DeviceConfig, x, y float64) Node {
	node := Node{
		ID:             uuid.NewString(),
		DeviceConfigID: cfg.ID,
		Label:          cfg.Name,
		HostnameIP:     cfg.HostnameIP,
		X:              x,
		Y:              y,
	}
	if cfg.DefaultIconPath != nil {
		node.IconPath = *cfg.DefaultIconPath
	}
	c.Nodes = append(c.Nodes, node)
	return node
}

// DropPayload is Drop for a serialized drag payload; a bad payload is a
// no-op.
func (c *Canvas) DropPayload(data []byte, x, y float64) (Node, bool) {
	cfg, ok := DecodeDragPayload(data)
	if !ok {
		return Node{}, false
	}
	return c.Drop(*cfg, x, y), true
}

// Connect appends an edge between two nodes. Self-edges and edges to
// unknown nodes are rejected.
func (c *Canvas) Connect(source, target string) (Edge, bool) {
	if source == target {
		return Edge{}, false
	}
	if c.NodeByID(source) == nil || c.NodeByID(target) == nil {
		return Edge{}, false
	}
	edge := Edge{
		ID:     uuid.NewString(),
		Source: source,
		Target: target,
	}
	c.Edges = append(c.Edges, edge)
	return edge, true
}

func (c *Canvas) NodeByID(id string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

func (c *Canvas) RemoveNode(id string) {
	var nodes []Node
	for _, n := range c.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	c.Nodes = nodes

	var edges []Edge
	for _, e := range c.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	c.Edges = edges
}

// Load replaces the canvas state wholesale with a topology detail.
func (c *Canvas) Load(detail *sdk.TopologyDetail) {
	c.Clear()
	for _, n := range detail.Nodes {
		c.Nodes = append(c.Nodes, Node{
			ID:             n.ID,
			DeviceConfigID: n.DeviceConfigID,
			Label:          n.InstanceName,
			HostnameIP:     n.HostnameIP,
			IconPath:       n.IconPath,
			X:              n.X,
			Y:              n.Y,
		})
	}
	for _, e := range detail.Edges {
		c.Edges = append(c.Edges, Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
}

// Fit translates and, when needed, scales node positions so every node
// falls inside a w×h view, preserving relative layout. Persisted
// coordinates can come from arbitrarily large canvases, so a loaded
// topology is re-fit before it is shown.
func (c *Canvas) Fit(w, h float64) {
	if len(c.Nodes) == 0 || w <= 1 || h <= 1 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range c.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}

	scaleX, scaleY := 1.0, 1.0
	if span := maxX - minX; span > w-1 {
		scaleX = (w - 1) / span
	}
	if span := maxY - minY; span > h-1 {
		scaleY = (h - 1) / span
	}

	for i := range c.Nodes {
		c.Nodes[i].X = (c.Nodes[i].X - minX) * scaleX
		c.Nodes[i].Y = (c.Nodes[i].Y - minY) * scaleY
	}
}

// SavePayload serializes every current node and edge for a whole-graph
// replace on the server.
func (c *Canvas) SavePayload() sdk.SaveTopologyPayload {
	payload := sdk.SaveTopologyPayload{
		Nodes: []sdk.Node{},
		Edges: []sdk.Edge{},
	}
	for _, n := range c.Nodes {
		payload.Nodes = append(payload.Nodes, sdk.Node{
			ID:             n.ID,
			DeviceConfigID: n.DeviceConfigID,
			InstanceName:   n.Label,
			X:              n.X,
			Y:              n.Y,
		})
	}
	for _, e := range c.Edges {
		payload.Edges = append(payload.Edges, sdk.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return payload
}
