package ui

import (
	"strings"
	"testing"

	"netlab/internal/canvas"
	"netlab/pkg/sdk"
)

func newTestEditor() editorModel {
	return editorModel{
		canvas: canvas.New(),
		focus:  focusCanvas,
		width:  100,
		height: 30,
	}
}

func TestLoadedTopologyIsVisibleAfterFit(t *testing.T) {
	m := newTestEditor()

	detail := &sdk.TopologyDetail{
		Topology: sdk.Topology{ID: 1, Name: "lab"},
		Nodes: []sdk.Node{
			{ID: "10", DeviceConfigID: 3, InstanceName: "edge-rtr", X: 500, Y: 300},
		},
	}
	model, _ := m.Update(topologyLoadedMsg(detail))
	m = model.(editorModel)

	view := m.canvasView(m.boardSize())
	if !strings.Contains(view, "edge-rtr") {
		t.Fatal("node persisted far outside the terminal grid is not visible after load")
	}
}

func TestLoadFitsAllNodesOntoBoard(t *testing.T) {
	m := newTestEditor()

	detail := &sdk.TopologyDetail{
		Topology: sdk.Topology{ID: 1, Name: "lab"},
		Nodes: []sdk.Node{
			{ID: "1", DeviceConfigID: 1, InstanceName: "a", X: 120, Y: 80},
			{ID: "2", DeviceConfigID: 1, InstanceName: "b", X: 900, Y: 640},
		},
	}
	model, _ := m.Update(topologyLoadedMsg(detail))
	m = model.(editorModel)

	w, h := m.boardSize()
	for _, n := range m.canvas.Nodes {
		if int(n.X) >= w || int(n.Y) >= h || n.X < 0 || n.Y < 0 {
			t.Errorf("node %s at (%v,%v) outside the %dx%d board", n.Label, n.X, n.Y, w, h)
		}
	}
	if m.cursorX != m.canvas.Nodes[0].X || m.cursorY != m.canvas.Nodes[0].Y {
		t.Errorf("cursor at (%v,%v) was not moved to the loaded layout", m.cursorX, m.cursorY)
	}
}
