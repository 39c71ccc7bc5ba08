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

type configItem struct {
	config sdk.DeviceConfig
}

func (i configItem) Title() string { return i.config.Name }
func (i configItem) Description() string {
	host := "no host"
	if i.config.HostnameIP != "" {
		host = i.config.HostnameIP
	}
	return fmt.Sprintf("ID: %d | %s | %s", i.config.ID, i.config.DeviceTypeName, host)
}
func (i configItem) FilterValue() string { return i.config.Name + " " + i.config.DeviceTypeName }

type configListMsg []sdk.DeviceConfig
type configTypesMsg []sdk.DeviceType
type configSavedMsg struct{}
type configDeletedMsg struct{}

type configMode int

const (
	configModeList configMode = iota
	configModeForm
	configModeConfirmDelete
)

const (
	fieldName = iota
	fieldType
	fieldHost
	fieldIcon
	fieldNotes
	fieldCount
)

type configsModel struct {
	list    list.Model
	client  *sdk.Client
	session *session.Store
	keys    *typeKeyMap

	types []sdk.DeviceType

	mode      configMode
	editingID uint
	inputs    [fieldCount]textinput.Model
	typeIdx   int
	formFocus int
	formErr   error
	deleting  *sdk.DeviceConfig
}

func (m configsModel) Init() tea.Cmd {
	return tea.Batch(refreshConfigs(m.client), fetchTypesForForm(m.client))
}

func (m configsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Messages the list screen needs regardless of mode.
	switch msg := msg.(type) {
	case configTypesMsg:
		m.types = msg
		if m.typeIdx >= len(m.types) {
			m.typeIdx = 0
		}
		return m, nil
	case configListMsg:
		var items []list.Item
		for _, c := range msg {
			items = append(items, configItem{config: c})
		}
		return m, m.list.SetItems(items)
	case configSavedMsg:
		m.mode = configModeList
		return m, tea.Batch(
			m.list.NewStatusMessage(statusStyle.Render("Device config saved.")),
			refreshConfigs(m.client),
		)
	case configDeletedMsg:
		return m, tea.Batch(
			m.list.NewStatusMessage(statusStyle.Render("Device config deleted.")),
			refreshConfigs(m.client),
		)
	case errMsg:
		m.mode = configModeList
		return m, m.list.NewStatusMessage(errorStyle.Render(msg.Error()))
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	switch m.mode {
	case configModeForm:
		return m.updateForm(msg)
	case configModeConfirmDelete:
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
			if len(m.types) == 0 {
				return m, m.list.NewStatusMessage(errorStyle.Render("Create a device type first."))
			}
			m.openForm(nil)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.edit):
			if !m.session.IsAdmin() {
				return m, m.list.NewStatusMessage(errorStyle.Render("Administration rights required."))
			}
			if i, ok := m.list.SelectedItem().(configItem); ok {
				m.openForm(&i.config)
				return m, textinput.Blink
			}
		case key.Matches(msg, m.keys.del):
			if !m.session.IsAdmin() {
				return m, m.list.NewStatusMessage(errorStyle.Render("Administration rights required."))
			}
			if i, ok := m.list.SelectedItem().(configItem); ok {
				m.mode = configModeConfirmDelete
				m.deleting = &i.config
				return m, nil
			}
		case key.Matches(msg, m.keys.refresh):
			return m, tea.Batch(refreshConfigs(m.client), fetchTypesForForm(m.client))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *configsModel) openForm(cfg *sdk.DeviceConfig) {
	m.mode = configModeForm
	m.formErr = nil
	m.formFocus = fieldName
	m.typeIdx = 0
	m.editingID = 0
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	if cfg != nil {
		m.editingID = cfg.ID
		m.inputs[fieldName].SetValue(cfg.Name)
		m.inputs[fieldHost].SetValue(cfg.HostnameIP)
		if cfg.DefaultIconPath != nil {
			m.inputs[fieldIcon].SetValue(*cfg.DefaultIconPath)
		}
		if cfg.Notes != nil {
			m.inputs[fieldNotes].SetValue(*cfg.Notes)
		}
		for i, t := range m.types {
			if t.ID == cfg.DeviceTypeID {
				m.typeIdx = i
				break
			}
		}
	}
	m.inputs[fieldName].Focus()
}

func (m configsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = configModeList
			return m, nil
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "left", "right":
			if m.formFocus == fieldType && len(m.types) > 0 {
				if msg.String() == "right" {
					m.typeIdx = (m.typeIdx + 1) % len(m.types)
				} else {
					m.typeIdx = (m.typeIdx - 1 + len(m.types)) % len(m.types)
				}
				return m, nil
			}
		case "enter":
			// Nothing is sent until the required fields validate.
			if m.inputs[fieldName].Value() == "" {
				m.formErr = fmt.Errorf("name is required")
				return m, nil
			}
			if len(m.types) == 0 {
				m.formErr = fmt.Errorf("a device type must be selected")
				return m, nil
			}
			m.formErr = nil
			payload := sdk.DeviceConfigPayload{
				Name:         m.inputs[fieldName].Value(),
				DeviceTypeID: m.types[m.typeIdx].ID,
				HostnameIP:   m.inputs[fieldHost].Value(),
			}
			if icon := m.inputs[fieldIcon].Value(); icon != "" {
				payload.DefaultIconPath = &icon
			}
			if notes := m.inputs[fieldNotes].Value(); notes != "" {
				payload.Notes = &notes
			}
			return m, saveConfig(m.client, m.editingID, payload)
		}
	}

	if m.formFocus != fieldType {
		var cmd tea.Cmd
		m.inputs[m.formFocus], cmd = m.inputs[m.formFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m configsModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	if m.formFocus != fieldType {
		m.inputs[m.formFocus].Blur()
	}
	m.formFocus = (m.formFocus + delta + fieldCount) % fieldCount
	if m.formFocus != fieldType {
		m.inputs[m.formFocus].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m configsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y":
			id := m.deleting.ID
			m.mode = configModeList
			m.deleting = nil
			return m, deleteConfig(m.client, id)
		case "n", "esc":
			m.mode = configModeList
			m.deleting = nil
			return m, nil
		}
	}
	return m, nil
}

func (m configsModel) View() string {
	switch m.mode {
	case configModeForm:
		title := "NEW DEVICE CONFIG"
		if m.editingID != 0 {
			title = "EDIT DEVICE CONFIG"
		}
		typeView := dimStyle.Render("(no types available)")
		if len(m.types) > 0 {
			typeView = fmt.Sprintf("◀ %s ▶", m.types[m.typeIdx].Name)
			if m.formFocus == fieldType {
				typeView = statusStyle.Render(typeView)
			}
		}
		content := fmt.Sprintf("Name:  %s\nType:  %s\nHost:  %s\nIcon:  %s\nNotes: %s",
			m.inputs[fieldName].View(), typeView, m.inputs[fieldHost].View(),
			m.inputs[fieldIcon].View(), m.inputs[fieldNotes].View())
		if m.formErr != nil {
			content += "\n\n" + errorStyle.Render(m.formErr.Error())
		}
		box := baseStyle.Render(titleStyle.Render(title) + "\n\n" + content)
		return docStyle.Render(box + "\n" + dimStyle.Render("tab: next field • ←/→: type • enter: save • esc: cancel"))
	case configModeConfirmDelete:
		prompt := fmt.Sprintf("Delete device config %q? (y/n)", m.deleting.Name)
		return docStyle.Render(baseStyle.Render(prompt))
	}
	return docStyle.Render(m.list.View())
}

func refreshConfigs(client *sdk.Client) tea.Cmd {
	return func() tea.Msg {
		configs, err := client.ListDeviceConfigs()
		if err != nil {
			return errMsg(err)
		}
		return configListMsg(configs)
	}
}

func fetchTypesForForm(client *sdk.Client) tea.Cmd {
	return func() tea.Msg {
		types, err := client.ListDeviceTypes()
		if err != nil {
			return errMsg(err)
		}
		return configTypesMsg(types)
	}
}

func saveConfig(client *sdk.Client, id uint, payload sdk.DeviceConfigPayload) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = client.CreateDeviceConfig(payload)
		} else {
			_, err = client.UpdateDeviceConfig(id, payload)
		}
		if err != nil {
			return errMsg(err)
		}
		return configSavedMsg{}
	}
}

func deleteConfig(client *sdk.Client, id uint) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteDeviceConfig(id); err != nil {
			return errMsg(err)
		}
		return configDeletedMsg{}
	}
}

func RunDeviceConfigs(client *sdk.Client, s *session.Store) {
	keys := newTypeKeyMap()
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Device Configs"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.create, keys.edit, keys.del, keys.refresh}
	}

	m := configsModel{
		list:    l,
		client:  client,
		session: s,
		keys:    keys,
	}
	placeholders := [fieldCount]string{"Core Router", "", "10.0.0.1", "/icons/router.svg", "rack 3"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		m.inputs[i] = ti
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running device configs: %v\n", err)
		os.Exit(1)
	}
}
