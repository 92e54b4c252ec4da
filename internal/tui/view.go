package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"xroadfields/internal/model"
	"xroadfields/internal/response"
	"xroadfields/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	structuralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true) // Sky Blue
	sensitiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))           // Orange
	maskedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	stringStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	numberStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	activeColor = lipgloss.Color("205")
	borderColor = lipgloss.Color("63")
)

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height
	if width == 0 || height == 0 {
		width, height = 100, 30
	}

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 8 {
		boxHeight = 8
	}
	interiorHeight := boxHeight - 2

	var leftContent string
	if m.Focus == PaneServices || m.Session == nil {
		leftContent = m.renderServices(leftWidth, interiorHeight)
	} else {
		leftContent = m.renderFields(leftWidth, interiorHeight)
	}

	topH := interiorHeight / 3
	if topH < 4 {
		topH = 4
	}
	botH := interiorHeight - topH - 1

	left := m.panel(leftContent, leftWidth, interiorHeight, m.Focus == PaneServices || m.Focus == PaneFields)
	requestBox := m.panel(m.renderRequest(rightWidth, topH), rightWidth, topH, m.Focus == PaneRequest)
	responseBox := m.panel(m.renderResponse(botH), rightWidth, botH, m.Focus == PaneResponse)
	right := lipgloss.JoinVertical(lipgloss.Left, requestBox, responseBox)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + m.renderFooter()
}

func (m AppModel) panel(content string, width, height int, active bool) string {
	color := borderColor
	if active {
		color = activeColor
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height + 2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Render(strings.TrimSuffix(content, "\n"))
}

// window returns the slice bounds that keep cursor centred in a list of n
// rows shown in visible lines.
func window(n, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	if n <= visible {
		return 0, n
	}
	start := 0
	if cursor >= visible/2 {
		start = cursor - visible/2
	}
	if start+visible > n {
		start = n - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	if width < 4 {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s
}

func (m AppModel) renderServices(width, height int) string {
	var sb strings.Builder
	title := "Services"
	if m.ServicesLoading {
		title += " " + m.Spinner.View()
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if len(m.Services) == 0 {
		if !m.ServicesLoading {
			sb.WriteString(dimStyle.Render("No services. Press r to refresh."))
		}
		return sb.String()
	}

	start, end := window(len(m.Services), m.ServiceIdx, height-2)
	for i := start; i < end; i++ {
		svc := m.Services[i]
		marker := "  "
		if m.Session != nil && m.Session.Service == svc.Name {
			marker = model.IconChecked + " "
		}
		if m.LoadingName == svc.Name {
			marker = m.Spinner.View()
		}
		line := marker + svc.Name
		if svc.Description != "" {
			line += dimStyle.Render(" - " + svc.Description)
		}
		line = truncate(line, width-2)
		if i == m.ServiceIdx && m.Focus == PaneServices {
			sb.WriteString(selectedStyle.Render(line))
		} else {
			sb.WriteString(normalStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m AppModel) renderFields(width, height int) string {
	var sb strings.Builder
	s := m.Session
	sb.WriteString(titleStyle.Render("Fields: " + s.Service))
	if s.Query != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  /%s", s.Query)))
	}
	sb.WriteString("\n\n")

	entries := s.Visible()
	if len(entries) == 0 {
		if s.Query != "" {
			sb.WriteString(dimStyle.Render("No visible field matches. Collapsed branches are not searched."))
		} else {
			sb.WriteString(dimStyle.Render("No fields."))
		}
		return sb.String()
	}

	start, end := window(len(entries), m.FieldIdx, height-2)
	for i := start; i < end; i++ {
		e := entries[i]
		rec := e.Record
		indent := strings.Repeat(" ", e.Depth*m.opts.IndentWidth)

		expander := model.IconLeaf
		if rec.HasChildren {
			expander = model.IconCollapsed
			if e.IsExpanded {
				expander = model.IconExpanded
			}
		}

		var check string
		switch {
		case rec.IsStructural:
			check = model.IconStructural
		case rec.Selected:
			check = model.IconChecked
		default:
			check = model.IconUnchecked
		}

		sens := " "
		if rec.Sensitive && !rec.IsStructural {
			sens = model.IconSensitive
			if !rec.Selected {
				sens = model.IconDisabled
			}
		}

		line := truncate(fmt.Sprintf("%s%s [%s]%s %s", indent, expander, check, sens, rec.Name), width-2-len(rec.Type)-1)
		style := normalStyle
		switch {
		case i == m.FieldIdx && m.Focus == PaneFields:
			style = selectedStyle
		case rec.IsStructural:
			style = structuralStyle
		case rec.Sensitive && rec.Selected:
			style = sensitiveStyle
		case !rec.Selected:
			style = dimStyle
		}
		sb.WriteString(style.Render(line))
		if rec.Type != "" {
			sb.WriteString(" " + dimStyle.Render(rec.Type))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m AppModel) renderRequest(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Request"))
	s := m.Session
	if s == nil {
		sb.WriteString("\n\n" + dimStyle.Render("Load a service to send a test request."))
		return sb.String()
	}
	if s.Busy(session.ActionSend) {
		sb.WriteString(" " + m.Spinner.View())
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(truncate("Endpoint: "+s.Endpoint, width-2)))
	sb.WriteString("\n")

	if len(s.InputParams) == 0 {
		sb.WriteString(dimStyle.Render("No input parameters."))
		return sb.String()
	}

	start, end := window(len(s.InputParams), m.ParamIdx, height-2)
	for i := start; i < end; i++ {
		p := s.InputParams[i]
		name := p.Name
		if p.Required {
			name += "*"
		}
		value := s.Params[p.Name]
		if m.Mode == InputParam && i == m.ParamIdx {
			value = m.InputBuffer.View()
		} else if value == "" {
			value = dimStyle.Render(p.Example)
		}
		line := fmt.Sprintf("%-20s %s", name, value)
		if i == m.ParamIdx && m.Focus == PaneRequest && m.Mode != InputParam {
			sb.WriteString(selectedStyle.Render(truncate(line, width-2)))
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m AppModel) renderResponse(height int) string {
	title := "Response"
	if m.ShowRaw {
		title += " (raw)"
	}
	return titleStyle.Render(title) + "\n" + m.ResponseViewport.View()
}

// refreshResponse rebuilds the response viewport from the session.
func (m *AppModel) refreshResponse() {
	m.ResponseViewport.SetContent(m.responseContent())
}

func (m AppModel) responseContent() string {
	s := m.Session
	if s == nil {
		return ""
	}
	if s.Busy(session.ActionSend) {
		return dimStyle.Render("Sending request...")
	}
	r := s.Response
	if r == nil {
		return dimStyle.Render("No response yet. Press t to send a test request.")
	}

	var sb strings.Builder
	if r.Failed() {
		status := "Error"
		if r.StatusCode != 0 {
			status = fmt.Sprintf("Error (%d)", r.StatusCode)
		}
		sb.WriteString(errorStyle.Render(status))
		if r.Error != "" {
			sb.WriteString("\n" + r.Error)
		}
		if r.Data == nil {
			return sb.String()
		}
		sb.WriteString("\n\n")
	} else {
		header := fmt.Sprintf("Success (%d) · %s", r.StatusCode, response.Size(r.Data))
		if n := response.CountMasked(r.Data); n > 0 {
			header += fmt.Sprintf(" · %d masked", n)
		}
		sb.WriteString(successStyle.Render(header))
		sb.WriteString("\n\n")
	}

	if m.ShowRaw {
		sb.WriteString(response.RawJSON(r.Data))
		return sb.String()
	}

	for _, line := range response.Render(r.Data) {
		sb.WriteString(strings.Repeat("  ", line.Depth))
		if line.Key != "" {
			sb.WriteString(keyStyle.Render(line.Key) + ": ")
		}
		sb.WriteString(valueStyle(line.Kind).Render(line.Value))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func valueStyle(k response.Kind) lipgloss.Style {
	switch k {
	case response.KindMasked:
		return maskedStyle
	case response.KindString:
		return stringStyle
	case response.KindNumber, response.KindBool:
		return numberStyle
	default:
		return dimStyle
	}
}

func (m AppModel) renderFooter() string {
	var sb strings.Builder

	if m.Session != nil {
		st := m.Session.Stats()
		line := fmt.Sprintf("%s · %d visible · %d selected · %d sensitive",
			m.Session.Service, st.Visible, st.Selected, st.Sensitive)
		if m.Session.Busy(session.ActionSave) {
			line += " · saving"
		}
		if m.Busy() {
			line += " " + m.Spinner.View()
		}
		sb.WriteString(dimStyle.Render(line))
	}
	if !m.Message.Empty() {
		if sb.Len() > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(messageStyle(m.Message.Kind).Render(m.Message.Text))
	}
	sb.WriteString("\n")

	switch m.Mode {
	case InputSearch:
		sb.WriteString("Search: " + m.InputBuffer.View())
	case InputParam:
		sb.WriteString("Edit parameter: enter to keep, esc to cancel")
	default:
		sb.WriteString(m.help.View(m.keys))
	}
	return sb.String()
}

func messageStyle(k session.Kind) lipgloss.Style {
	switch k {
	case session.KindSuccess:
		return successStyle
	case session.KindError:
		return errorStyle
	default:
		return infoStyle
	}
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(strings.TrimRight(m.HelpContent, "\n"), "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(strings.Join(lines[startY:endY], "\n"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}
