package ui

import (
	"fmt"
	"os"

	"netlab/internal/session"
	"netlab/pkg/sdk"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type typeItem struct {
	deviceType sdk.DeviceType
}

func (i typeItem) Title() string { return i.deviceType.Name }
func (i typeItem) Description() string {
	icon := "no icon"
	if i.deviceType.DefaultIconPath != nil {
		icon = *i.deviceType.DefaultIconPath
	}
	return fmt.Sprintf("ID: %d | %s", i.deviceType.ID, icon)
}
func (i typeItem) FilterValue() string { return i.deviceType.Name }

type typeListMsg []sdk.DeviceType
type typeSavedMsg struct{}
type typeDeletedMsg struct{}

type typeMode int

const (
	typeModeList typeMode = iota
	typeModeForm
	typeModeConfirmDelete
)

type typeKeyMap struct {
	create  key.Binding
	edit    key.Binding
	del     key.Binding
	refresh key.Binding
}

func newTypeKeyMap() *typeKeyMap {
	return &typeKeyMap{
		create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

type typesModel struct {
	list    list.Model
	client  *sdk.Client
	session *session.Store
	keys    *typeKeyMap

	mode      typeMode
	editingID uint
	nameInput textinput.Model
	iconInput textinput.Model
	formFocus int
	formErr   error
	deleting  *sdk.DeviceType
}

func (m typesModel) Init() tea.Cmd {
	return refreshTypes(m.client)
}

func (m typesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case typeModeForm:
		return m.updateForm(msg)
	case typeModeConfirmDelete:
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.create):
			if !m.session.IsAdmin() {
				return m, m.list.NewStatusMessage(errorStyle.Render("Administration rights required."))
			}
			m.openForm(nil)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.edit):
			if !m.session.IsAdmin() {
				return m, m.list.NewStatusMessage(errorStyle.Render("Administration rights required."))
			}
			if i, ok := m.list.SelectedItem().(typeItem); ok {
				m.openForm(&i.deviceType)
				return m, textinput.Blink
			}
		case key.Matches(msg, m.keys.del):
			if !m.session.IsAdmin() {
				return m, m.list.NewStatusMessage(errorStyle.Render("Administration rights required."))
			}
			if i, ok := m.list.SelectedItem().(typeItem); ok {
				m.mode = typeModeConfirmDelete
				m.deleting = &i.deviceType
				return m, nil
			}
		case key.Matches(msg, m.keys.refresh):
			return m, refreshTypes(m.client)
		}
	case typeListMsg:
		var items []list.Item
		for _, t := range msg {
			items = append(items, typeItem{deviceType: t})
		}
		return m, m.list.SetItems(items)
	case typeSavedMsg:
		return m, tea.Batch(
			m.list.NewStatusMessage(statusStyle.Render("Device type saved.")),
			refreshTypes(m.client),
		)
	case typeDeletedMsg:
		return m, tea.Batch(
			m.list.NewStatusMessage(statusStyle.Render("Device type deleted.")),
			refreshTypes(m.client),
		)
	case errMsg:
		return m, m.list.NewStatusMessage(errorStyle.Render(msg.Error()))
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *typesModel) openForm(dt *sdk.DeviceType) {
	m.mode = typeModeForm
	m.formErr = nil
	m.formFocus = 0
	m.nameInput.SetValue("")
	m.iconInput.SetValue("")
	m.editingID = 0
	if dt != nil {
		m.editingID = dt.ID
		m.nameInput.SetValue(dt.Name)
		if dt.DefaultIconPath != nil {
			m.iconInput.SetValue(*dt.DefaultIconPath)
		}
	}
	m.nameInput.Focus()
	m.iconInput.Blur()
}

func (m typesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = typeModeList
			return m, nil
		case "tab", "shift+tab", "up", "down":
			if m.formFocus == 0 {
				m.formFocus = 1
				m.nameInput.Blur()
				m.iconInput.Focus()
			} else {
				m.formFocus = 0
				m.iconInput.Blur()
				m.nameInput.Focus()
			}
			return m, textinput.Blink
		case "enter":
			if m.nameInput.Value() == "" {
				m.formErr = fmt.Errorf("name is required")
				return m, nil
			}
			payload := sdk.DeviceTypePayload{Name: m.nameInput.Value()}
			if icon := m.iconInput.Value(); icon != "" {
				payload.DefaultIconPath = &icon
			}
			id := m.editingID
			m.mode = typeModeList
			return m, saveType(m.client, id, payload)
		}
	case typeSavedMsg, errMsg:
		m.mode = typeModeList
		return m.Update(msg)
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.iconInput, cmd = m.iconInput.Update(msg)
	}
	return m, cmd
}

func (m typesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y":
			id := m.deleting.ID
			m.mode = typeModeList
			m.deleting = nil
			return m, deleteType(m.client, id)
		case "n", "esc":
			m.mode = typeModeList
			m.deleting = nil
			return m, nil
		}
	}
	return m, nil
}

func (m typesModel) View() string {
	switch m.mode {
	case typeModeForm:
		title := "NEW DEVICE TYPE"
		if m.editingID != 0 {
			title = "EDIT DEVICE TYPE"
		}
		content := fmt.Sprintf("Name: %s\nIcon: %s", m.nameInput.View(), m.iconInput.View())
		if m.formErr != nil {
			content += "\n\n" + errorStyle.Render(m.formErr.Error())
		}
		box := baseStyle.Render(titleStyle.Render(title) + "\n\n" + content)
		return docStyle.Render(box + "\n" + dimStyle.Render("enter: save • esc: cancel"))
	case typeModeConfirmDelete:
		prompt := fmt.Sprintf("Delete device type %q? (y/n)", m.deleting.Name)
		return docStyle.Render(baseStyle.Render(prompt))
	}
	return docStyle.Render(m.list.View())
}

func refreshTypes(client *sdk.Client) tea.Cmd {
	return func() tea.Msg {
		types, err := client.ListDeviceTypes()
		if err != nil {
			return errMsg(err)
		}
		return typeListMsg(types)
	}
}

func saveType(client *sdk.Client, id uint, payload sdk.DeviceTypePayload) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = client.CreateDeviceType(payload)
		} else {
			_, err = client.UpdateDeviceType(id, payload)
		}
		if err != nil {
			return errMsg(err)
		}
		return typeSavedMsg{}
	}
}

func deleteType(client *sdk.Client, id uint) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteDeviceType(id); err != nil {
			return errMsg(err)
		}
		return typeDeletedMsg{}
	}
}

func RunDeviceTypes(client *sdk.Client, s *session.Store) {
	keys := newTypeKeyMap()
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Device Types"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.create, keys.edit, keys.del, keys.refresh}
	}

	name := textinput.New()
	name.Placeholder = "Router"
	name.CharLimit = 64
	name.Width = 30

	icon := textinput.New()
	icon.Placeholder = "/icons/router.svg"
	icon.CharLimit = 256
	icon.Width = 40

	m := typesModel{
		list:      l,
		client:    client,
		session:   s,
		keys:      keys,
		nameInput: name,
		iconInput: icon,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running device types: %v\n", err)
		os.Exit(1)
	}
}
