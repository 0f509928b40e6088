package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowir/cbsched/cmdbuffer"
	"github.com/flowir/cbsched/hlo"
	"github.com/flowir/cbsched/hlotext"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	regionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	err            error
	filename       string
	source         string
	regions        []regionInfo
	after          string
	configInput    textinput.Model
	kinds          []hlo.OpKind
	minRun         int
	toolkitVersion int32
	driverVersion  int32
	selected       int
	state          browserState
}

type regionInfo struct {
	computation string
	commands    []string
	body        string
	length      int
}

type browserState int

const (
	stateListRegions browserState = iota
	stateShowBody
	stateEditConfig
	stateShowAfter
)

func newBrowserModel(filename string, kinds []hlo.OpKind, minRun int, toolkitVersion, driverVersion int32) *browserModel {
	ti := textinput.New()
	ti.Prompt = "commands: "
	ti.Width = 60
	ti.SetValue(joinKinds(kinds))
	return &browserModel{
		filename:       filename,
		kinds:          kinds,
		minRun:         minRun,
		toolkitVersion: toolkitVersion,
		driverVersion:  driverVersion,
		configInput:    ti,
		state:          stateListRegions,
	}
}

type segmentedMsg struct {
	err     error
	source  string
	regions []regionInfo
}

type appliedMsg struct {
	err   error
	after string
}

func (m *browserModel) Init() tea.Cmd {
	return m.segment
}

// segment parses a fresh module and lists the regions the current config
// would lift, with an extraction preview per region. The throwaway module is
// discarded, so browsing never mutates anything on disk.
func (m *browserModel) segment() tea.Msg {
	src, err := os.ReadFile(m.filename)
	if err != nil {
		return segmentedMsg{err: err}
	}

	mod, err := hlotext.Parse(string(src))
	if err != nil {
		return segmentedMsg{err: err, source: string(src)}
	}

	config := cmdbuffer.NewCommandConfig(m.kinds...)
	processed := make(map[hlo.CompID]struct{})
	var regions []regionInfo

	for _, c := range mod.Computations() {
		if err := cmdbuffer.MoveParametersAndConstantsToFront(c); err != nil {
			return segmentedMsg{err: err}
		}
		seq := append([]hlo.InstrID(nil), c.Instructions()...)
		for _, r := range cmdbuffer.CollectRegions(c, seq, config, processed, m.minRun) {
			info := regionInfo{computation: c.Name(), length: r.Len()}
			for _, id := range r.Instrs(seq) {
				info.commands = append(info.commands, string(c.Instr(id).Op))
			}
			cb, err := cmdbuffer.PrepareCommandBuffer(c, seq, r)
			if err != nil {
				return segmentedMsg{err: err}
			}
			info.body = cb.Computation.String()
			regions = append(regions, info)
		}
	}
	return segmentedMsg{regions: regions, source: string(src)}
}

// apply runs the full pass on a fresh parse and renders the result.
func (m *browserModel) apply() tea.Msg {
	mod, err := hlotext.Parse(m.source)
	if err != nil {
		return appliedMsg{err: err}
	}
	pass := cmdbuffer.New(m.toolkitVersion, m.driverVersion, cmdbuffer.WithMinCommands(m.minRun))
	if _, err := pass.Run(mod, cmdbuffer.NewCommandConfig(m.kinds...)); err != nil {
		return appliedMsg{err: err}
	}
	return appliedMsg{after: mod.String()}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateEditConfig {
			switch msg.String() {
			case "enter":
				m.kinds = parseKinds(m.configInput.Value())
				m.state = stateListRegions
				m.selected = 0
				return m, m.segment
			case "esc":
				m.configInput.SetValue(joinKinds(m.kinds))
				m.state = stateListRegions
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.configInput, cmd = m.configInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateListRegions && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateListRegions && m.selected < len(m.regions)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateListRegions && len(m.regions) > 0 {
				m.state = stateShowBody
			}

		case "c":
			m.state = stateEditConfig
			m.configInput.Focus()

		case "a":
			if m.state != stateShowAfter {
				m.state = stateShowAfter
				return m, m.apply
			}

		case "esc":
			m.state = stateListRegions
		}

	case segmentedMsg:
		m.err = msg.err
		m.source = msg.source
		m.regions = msg.regions
		if m.selected >= len(m.regions) {
			m.selected = 0
		}

	case appliedMsg:
		m.err = msg.err
		m.after = msg.after
	}

	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Command Buffer Regions"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateListRegions:
		if len(m.regions) == 0 {
			b.WriteString("No regions for the current command set.\n")
		}
		for i, r := range m.regions {
			line := fmt.Sprintf("%s: %d commands [%s]", r.computation, r.length, strings.Join(r.commands, " "))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + regionStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter body • c commands • a apply • q quit"))

	case stateShowBody:
		r := m.regions[m.selected]
		fmt.Fprintf(&b, "Extracted body for %s region:\n\n", regionStyle.Render(r.computation))
		b.WriteString(bodyStyle.Render(r.body))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))

	case stateEditConfig:
		b.WriteString("Eligible command kinds (comma-separated):\n\n")
		b.WriteString(m.configInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter re-segment • esc cancel"))

	case stateShowAfter:
		if m.after == "" {
			b.WriteString("Applying pass...\n")
		} else {
			b.WriteString("Module after the pass:\n\n")
			b.WriteString(bodyStyle.Render(m.after))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func joinKinds(kinds []hlo.OpKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func parseKinds(s string) []hlo.OpKind {
	var kinds []hlo.OpKind
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			kinds = append(kinds, hlo.OpKind(part))
		}
	}
	return kinds
}

func runInteractive(filename string, kinds []hlo.OpKind, minRun int, toolkitVersion, driverVersion int32) error {
	p := tea.NewProgram(newBrowserModel(filename, kinds, minRun, toolkitVersion, driverVersion), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
