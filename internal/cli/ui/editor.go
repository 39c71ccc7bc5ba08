package ui

import (
	"fmt"
	"math"
	"os"
	"strings"

	"netlab/internal/canvas"
	"netlab/internal/session"
	"netlab/pkg/sdk"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
)

type editorFocus int

const (
	focusPalette editorFocus = iota
	focusCanvas
)

const (
	paletteWidth = 32
	// labelMargin keeps room to the right of a fitted node so its label
	// is not pushed off the grid edge.
	labelMargin = 12
)

type paletteMsg struct {
	configs []sdk.DeviceConfig
	err     error
}

type topologyLoadedMsg *sdk.TopologyDetail
type topologySavedMsg *sdk.TopologyDetail
type sshOpenedMsg string

type editorModel struct {
	client  *sdk.Client
	session *session.Store
	canvas  *canvas.Canvas

	topology *sdk.Topology

	configs       []sdk.DeviceConfig
	paletteErr    error
	paletteLoaded bool
	paletteIdx    int

	focus       editorFocus
	cursorX     float64
	cursorY     float64
	selected    string
	connectFrom string

	confirmSSH *canvas.Node

	status string
	width  int
	height int
	back   bool
}

func (m editorModel) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchPalette(m.client, m.session)}
	if m.topology != nil {
		cmds = append(cmds, loadTopology(m.client, m.topology.ID))
	}
	return tea.Batch(cmds...)
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case paletteMsg:
		m.paletteLoaded = true
		m.configs = msg.configs
		m.paletteErr = msg.err
		if m.paletteIdx >= len(m.configs) {
			m.paletteIdx = 0
		}
		return m, nil
	case topologyLoadedMsg:
		detail := (*sdk.TopologyDetail)(msg)
		m.topology = &detail.Topology
		m.canvas.Load(detail)
		m.fitView()
		m.selected = ""
		m.connectFrom = ""
		return m, nil
	case topologySavedMsg:
		detail := (*sdk.TopologyDetail)(msg)
		m.topology = &detail.Topology
		m.canvas.Load(detail)
		m.fitView()
		m.selected = ""
		m.connectFrom = ""
		m.status = statusStyle.Render("Topology saved.")
		return m, nil
	case sshOpenedMsg:
		m.status = statusStyle.Render(fmt.Sprintf("Opened %s", string(msg)))
		return m, nil
	case errMsg:
		m.status = errorStyle.Render(msg.Error())
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmSSH != nil {
		switch msg.String() {
		case "y":
			node := m.confirmSSH
			m.confirmSSH = nil
			return m, openSSH(node.HostnameIP)
		case "n", "esc":
			m.confirmSSH = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.back = true
		return m, tea.Quit
	case "tab":
		if m.focus == focusPalette {
			m.focus = focusCanvas
		} else {
			m.focus = focusPalette
		}
		return m, nil
	case "s":
		if m.topology == nil {
			m.status = errorStyle.Render("Open or create a topology before saving.")
			return m, nil
		}
		return m, saveTopology(m.client, m.topology.ID, m.canvas.SavePayload())
	case "r":
		if m.topology != nil {
			return m, loadTopology(m.client, m.topology.ID)
		}
		return m, nil
	}

	if m.focus == focusPalette {
		return m.handlePaletteKey(msg)
	}
	return m.handleCanvasKey(msg)
}

func (m editorModel) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.paletteIdx > 0 {
			m.paletteIdx--
		}
	case "down", "j":
		if m.paletteIdx < len(m.configs)-1 {
			m.paletteIdx++
		}
	case "enter":
		if len(m.configs) == 0 {
			return m, nil
		}
		// The drop goes through the drag payload so a foreign or
		// malformed payload is rejected the same way a real drag is.
		data := canvas.EncodeDragPayload(m.configs[m.paletteIdx])
		node, ok := m.canvas.DropPayload(data, m.cursorX, m.cursorY)
		if !ok {
			return m, nil
		}
		m.selected = node.ID
		m.status = statusStyle.Render(fmt.Sprintf("Placed %s", node.Label))
		m.focus = focusCanvas
	}
	return m, nil
}

func (m editorModel) handleCanvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.cursorY = math.Max(0, m.cursorY-1)
	case "down":
		m.cursorY++
	case "left":
		m.cursorX = math.Max(0, m.cursorX-2)
	case "right":
		m.cursorX += 2
	case "enter":
		if node := m.nodeNearCursor(); node != nil {
			m.selected = node.ID
			m.status = statusStyle.Render(fmt.Sprintf("Selected %s", node.Label))
		} else {
			m.selected = ""
		}
	case "g":
		if node := m.canvas.NodeByID(m.selected); node != nil {
			node.X = m.cursorX
			node.Y = m.cursorY
		}
	case "c":
		return m.handleConnect()
	case "x":
		if m.selected != "" {
			m.canvas.RemoveNode(m.selected)
			m.selected = ""
			m.connectFrom = ""
		}
	case "o":
		node := m.canvas.NodeByID(m.selected)
		if node == nil {
			m.status = dimStyle.Render("Select a node first.")
			return m, nil
		}
		if node.HostnameIP == "" {
			m.status = dimStyle.Render(fmt.Sprintf("No hostname or IP set for %s.", node.Label))
			return m, nil
		}
		m.confirmSSH = node
	}
	return m, nil
}

func (m editorModel) handleConnect() (tea.Model, tea.Cmd) {
	if m.selected == "" {
		m.status = dimStyle.Render("Select a node to connect from.")
		return m, nil
	}
	if m.connectFrom == "" {
		m.connectFrom = m.selected
		m.status = statusStyle.Render("Select the target node and press c again.")
		return m, nil
	}
	if _, ok := m.canvas.Connect(m.connectFrom, m.selected); ok {
		m.status = statusStyle.Render("Nodes connected.")
	} else {
		m.status = errorStyle.Render("Cannot connect those nodes.")
	}
	m.connectFrom = ""
	return m, nil
}

// boardSize is the cell area of the canvas box for the current terminal
// size, with defaults for before the first window-size message arrives.
func (m editorModel) boardSize() (int, int) {
	width, height := m.width, m.height
	if width == 0 {
		width, height = 80, 24
	}
	return width - paletteWidth - 8, height - 12
}

// fitView re-fits loaded coordinates to the visible grid and parks the
// cursor on the first node. Persisted positions can be far outside the
// terminal, so without this a loaded topology could render as blank.
func (m *editorModel) fitView() {
	w, h := m.boardSize()
	m.canvas.Fit(float64(w-labelMargin), float64(h-1))
	if len(m.canvas.Nodes) > 0 {
		m.cursorX = m.canvas.Nodes[0].X
		m.cursorY = m.canvas.Nodes[0].Y
	}
}

func (m editorModel) nodeNearCursor() *canvas.Node {
	for i := range m.canvas.Nodes {
		n := &m.canvas.Nodes[i]
		if math.Abs(n.X-m.cursorX) <= 2 && math.Abs(n.Y-m.cursorY) <= 1 {
			return n
		}
	}
	return nil
}

func (m editorModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := "SCRATCH CANVAS (not saved)"
	if m.topology != nil {
		title = strings.ToUpper(m.topology.Name)
	}
	header := headerStyle.Width(m.width).Render(title)

	canvasWidth, canvasHeight := m.boardSize()

	palette := baseStyle.Width(paletteWidth).Height(canvasHeight).Render(m.paletteView())
	board := baseStyle.Width(canvasWidth).Height(canvasHeight).Render(m.canvasView(canvasWidth, canvasHeight))

	main := lipgloss.JoinHorizontal(lipgloss.Top, palette, board)

	statusLine := "tab: palette/canvas • enter: place/select • g: move • c: connect • o: open ssh • x: remove • s: save • q: back"
	if m.confirmSSH != nil {
		statusLine = fmt.Sprintf("Open ssh://%s? (y/n)", m.confirmSSH.HostnameIP)
	}
	footer := footerStyle.Width(m.width - 4).Render(statusLine)

	parts := []string{header, main}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m editorModel) paletteView() string {
	header := titleStyle.Render("DEVICES")

	if !m.session.IsAuthenticated() {
		return header + "\n\n" + dimStyle.Render("Log in to see available devices.")
	}
	if m.paletteErr != nil {
		return header + "\n\n" + errorStyle.Render(fmt.Sprintf("Could not load devices: %v", m.paletteErr))
	}
	if !m.paletteLoaded {
		return header + "\n\n" + dimStyle.Render("Loading devices...")
	}
	if len(m.configs) == 0 {
		return header + "\n\n" + dimStyle.Render("No device configs defined yet.")
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	for i, cfg := range m.configs {
		line := fmt.Sprintf("%s (%s)", cfg.Name, cfg.DeviceTypeName)
		if i == m.paletteIdx && m.focus == focusPalette {
			line = statusStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m editorModel) canvasView(w, h int) string {
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	place := func(x, y int, s string) {
		if y < 0 || y >= h {
			return
		}
		for i, r := range s {
			if x+i < 0 || x+i >= w {
				return
			}
			grid[y][x+i] = r
		}
	}

	for i := range m.canvas.Nodes {
		n := &m.canvas.Nodes[i]
		marker := "○"
		if n.ID == m.selected {
			marker = "●"
		}
		if n.ID == m.connectFrom {
			marker = "◉"
		}
		place(int(n.X), int(n.Y), marker+" "+n.Label)
	}
	if m.focus == focusCanvas {
		place(int(m.cursorX), int(m.cursorY), "+")
	}

	var b strings.Builder
	for y := range grid {
		b.WriteString(string(grid[y]))
		b.WriteByte('\n')
	}

	if len(m.canvas.Edges) > 0 {
		b.WriteString(dimStyle.Render("links: "))
		var links []string
		for _, e := range m.canvas.Edges {
			src, dst := e.Source, e.Target
			if n := m.canvas.NodeByID(e.Source); n != nil {
				src = n.Label
			}
			if n := m.canvas.NodeByID(e.Target); n != nil {
				dst = n.Label
			}
			links = append(links, fmt.Sprintf("%s—%s", src, dst))
		}
		b.WriteString(dimStyle.Render(strings.Join(links, ", ")))
	}
	return b.String()
}

func fetchPalette(client *sdk.Client, s *session.Store) tea.Cmd {
	return func() tea.Msg {
		if !s.IsAuthenticated() {
			return paletteMsg{}
		}
		configs, err := client.ListDeviceConfigs()
		return paletteMsg{configs: configs, err: err}
	}
}

func loadTopology(client *sdk.Client, id uint) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.GetTopologyDetail(id)
		if err != nil {
			return errMsg(err)
		}
		return topologyLoadedMsg(detail)
	}
}

func saveTopology(client *sdk.Client, id uint, payload sdk.SaveTopologyPayload) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.SaveTopology(id, payload)
		if err != nil {
			return errMsg(err)
		}
		return topologySavedMsg(detail)
	}
}

func openSSH(host string) tea.Cmd {
	return func() tea.Msg {
		url := "ssh://" + host
		if err := browser.OpenURL(url); err != nil {
			return errMsg(err)
		}
		return sshOpenedMsg(url)
	}
}

// RunEditor opens the canvas editor for the given topology; id 0 opens a
// scratch canvas with saving disabled. It reports whether the user wants to
// return to the picker.
func RunEditor(client *sdk.Client, s *session.Store, topologyID uint) bool {
	m := editorModel{
		client:  client,
		session: s,
		canvas:  canvas.New(),
		focus:   focusCanvas,
		cursorX: 10,
		cursorY: 5,
	}
	if topologyID != 0 {
		m.topology = &sdk.Topology{ID: topologyID}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running editor: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(editorModel); ok {
		return m.back
	}
	return false
}
