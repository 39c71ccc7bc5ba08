package ui

import (
	"fmt"
	"os"

	"netlab/pkg/sdk"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type topologyItem struct {
	topology sdk.Topology
}

func (i topologyItem) Title() string { return i.topology.Name }
func (i topologyItem) Description() string {
	desc := fmt.Sprintf("ID: %d | updated %s", i.topology.ID, i.topology.UpdatedAt.Format("2006-01-02 15:04"))
	if i.topology.Description != nil && *i.topology.Description != "" {
		desc += " | " + *i.topology.Description
	}
	return desc
}
func (i topologyItem) FilterValue() string { return i.topology.Name }

type topologyListMsg []sdk.Topology
type topologyCreatedMsg *sdk.Topology
type topologyDeletedMsg struct{}

type pickerMode int

const (
	pickerModeList pickerMode = iota
	pickerModeCreate
	pickerModeConfirmDelete
)

type pickerModel struct {
	list   list.Model
	client *sdk.Client
	keys   *typeKeyMap

	mode      pickerMode
	nameInput textinput.Model
	descInput textinput.Model
	formFocus int
	formErr   error
	deleting  *sdk.Topology

	choice uint
}

func (m pickerModel) Init() tea.Cmd {
	return refreshTopologies(m.client)
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case topologyListMsg:
		var items []list.Item
		for _, t := range msg {
			items = append(items, topologyItem{topology: t})
		}
		return m, m.list.SetItems(items)
	case topologyCreatedMsg:
		m.mode = pickerModeList
		m.choice = msg.ID
		return m, tea.Quit
	case topologyDeletedMsg:
		return m, tea.Batch(
			m.list.NewStatusMessage(statusStyle.Render("Topology deleted.")),
			refreshTopologies(m.client),
		)
	case errMsg:
		m.mode = pickerModeList
		return m, m.list.NewStatusMessage(errorStyle.Render(msg.Error()))
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	switch m.mode {
	case pickerModeCreate:
		return m.updateCreate(msg)
	case pickerModeConfirmDelete:
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.create):
			m.mode = pickerModeCreate
			m.formErr = nil
			m.formFocus = 0
			m.nameInput.SetValue("")
			m.descInput.SetValue("")
			m.nameInput.Focus()
			m.descInput.Blur()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.del):
			if i, ok := m.list.SelectedItem().(topologyItem); ok {
				m.mode = pickerModeConfirmDelete
				m.deleting = &i.topology
				return m, nil
			}
		case key.Matches(msg, m.keys.refresh):
			return m, refreshTopologies(m.client)
		case msg.String() == "enter":
			if i, ok := m.list.SelectedItem().(topologyItem); ok {
				m.choice = i.topology.ID
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = pickerModeList
			return m, nil
		case "tab", "shift+tab", "up", "down":
			if m.formFocus == 0 {
				m.formFocus = 1
				m.nameInput.Blur()
				m.descInput.Focus()
			} else {
				m.formFocus = 0
				m.descInput.Blur()
				m.nameInput.Focus()
			}
			return m, textinput.Blink
		case "enter":
			if m.nameInput.Value() == "" {
				m.formErr = fmt.Errorf("name is required")
				return m, nil
			}
			req := sdk.CreateTopologyRequest{Name: m.nameInput.Value()}
			if desc := m.descInput.Value(); desc != "" {
				req.Description = &desc
			}
			return m, createTopology(m.client, req)
		}
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m pickerModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y":
			id := m.deleting.ID
			m.mode = pickerModeList
			m.deleting = nil
			return m, deleteTopology(m.client, id)
		case "n", "esc":
			m.mode = pickerModeList
			m.deleting = nil
			return m, nil
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	switch m.mode {
	case pickerModeCreate:
		content := fmt.Sprintf("Name:        %s\nDescription: %s", m.nameInput.View(), m.descInput.View())
		if m.formErr != nil {
			content += "\n\n" + errorStyle.Render(m.formErr.Error())
		}
		box := baseStyle.Render(titleStyle.Render("NEW TOPOLOGY") + "\n\n" + content)
		return docStyle.Render(box + "\n" + dimStyle.Render("enter: create and open • esc: cancel"))
	case pickerModeConfirmDelete:
		prompt := fmt.Sprintf("Delete topology %q? (y/n)", m.deleting.Name)
		return docStyle.Render(baseStyle.Render(prompt))
	}
	return docStyle.Render(m.list.View())
}

func refreshTopologies(client *sdk.Client) tea.Cmd {
	return func() tea.Msg {
		topologies, err := client.ListTopologies()
		if err != nil {
			return errMsg(err)
		}
		return topologyListMsg(topologies)
	}
}

func createTopology(client *sdk.Client, req sdk.CreateTopologyRequest) tea.Cmd {
	return func() tea.Msg {
		topology, err := client.CreateTopology(req)
		if err != nil {
			return errMsg(err)
		}
		return topologyCreatedMsg(topology)
	}
}

func deleteTopology(client *sdk.Client, id uint) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteTopology(id); err != nil {
			return errMsg(err)
		}
		return topologyDeletedMsg{}
	}
}

// RunTopologyPicker returns the id of the topology to open, or 0 when the
// user quit without choosing one.
func RunTopologyPicker(client *sdk.Client) uint {
	keys := newTypeKeyMap()
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Topologies"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.create, keys.del, keys.refresh}
	}

	name := textinput.New()
	name.Placeholder = "Branch office lab"
	name.CharLimit = 128
	name.Width = 40

	desc := textinput.New()
	desc.Placeholder = "optional description"
	desc.CharLimit = 256
	desc.Width = 40

	m := pickerModel{
		list:      l,
		client:    client,
		keys:      keys,
		nameInput: name,
		descInput: desc,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running topology picker: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(pickerModel); ok {
		return m.choice
	}
	return 0
}
