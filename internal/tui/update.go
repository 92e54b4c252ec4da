package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"xroadfields/internal/fields"
	"xroadfields/internal/model"
	"xroadfields/internal/session"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.ResponseViewport.Width = msg.Width/2 - 4
		m.ResponseViewport.Height = msg.Height/2 - 6
		if m.ResponseViewport.Height < 3 {
			m.ResponseViewport.Height = 3
		}
		m.help.Width = msg.Width
		m.refreshResponse()
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgServicesLoaded:
		return m.handleServicesLoaded(msg)

	case MsgFieldsLoaded:
		return m.handleFieldsLoaded(msg)

	case MsgSaved:
		return m.handleSaved(msg)

	case MsgResponse:
		return m.handleResponse(msg)

	case MsgExpire:
		if m.Message.Seq == msg.Seq {
			m.Message = session.Message{}
		}
		return m, nil

	case tea.KeyMsg:
		if m.Mode != InputNone {
			return m.updateInput(msg)
		}
		if m.ShowHelp {
			return m.updateHelp(msg)
		}
		return m.updateKeys(msg)
	}

	return m, cmd
}

func (m AppModel) handleServicesLoaded(msg MsgServicesLoaded) (tea.Model, tea.Cmd) {
	m.ServicesLoading = false
	if msg.Err != nil {
		slog.Warn("service list failed", "err", msg.Err)
		m.setFailure(fmt.Sprintf("Failed to load services: %v", msg.Err))
		return m, nil
	}

	m.Services = msg.Services
	m.clampCursors()
	if len(m.Services) == 0 {
		m.setInfo("No services found in the WSDL")
		return m, nil
	}
	return m, m.setSuccess(fmt.Sprintf("Loaded %d services", len(m.Services)))
}

func (m AppModel) handleFieldsLoaded(msg MsgFieldsLoaded) (tea.Model, tea.Cmd) {
	if msg.Reload {
		if err := m.Session.Check(msg.Service, msg.Generation); err != nil {
			slog.Debug("dropping field reload", "err", err)
			return m, nil
		}
		m.Session.End(session.ActionLoad)
		if msg.Err != nil {
			m.setFailure(fmt.Sprintf("Failed to reload fields: %v", msg.Err))
			return m, nil
		}
		m.Session.Reload(msg.Fields.Fields)
		m.clampCursors()
		return m, m.setSuccess(fmt.Sprintf("Reloaded %d fields", m.Session.Store.Len()))
	}

	if msg.Seq != m.LoadSeq {
		slog.Debug("dropping stale field load", "service", msg.Service, "seq", msg.Seq, "latest", m.LoadSeq)
		return m, nil
	}
	m.LoadingName = ""

	if msg.Err != nil {
		slog.Warn("field load failed", "service", msg.Service, "err", msg.Err)
		m.setFailure(fmt.Sprintf("Failed to load fields for %s: %v", msg.Service, msg.Err))
		return m, nil
	}

	m.Session = session.Open(m.Session, msg.Service, msg.Fields)
	m.FieldIdx, m.ParamIdx = 0, 0
	m.leaveInput()
	m.Focus = PaneFields
	m.refreshResponse()
	return m, m.setSuccess(fmt.Sprintf("Loaded %d fields for %s", m.Session.Store.Len(), msg.Service))
}

func (m AppModel) handleSaved(msg MsgSaved) (tea.Model, tea.Cmd) {
	if m.Session.Matches(msg.Service, msg.Generation) {
		m.Session.End(session.ActionSave)
	}
	if msg.Err != nil {
		slog.Warn("save failed", "service", msg.Service, "err", msg.Err)
		m.setFailure(fmt.Sprintf("Failed to save configuration: %v", msg.Err))
		return m, nil
	}
	slog.Info("configuration saved", "service", msg.Service, "fields", msg.Count)
	return m, m.setSuccess(fmt.Sprintf("Configuration saved for %s (%d fields)", msg.Service, msg.Count))
}

func (m AppModel) handleResponse(msg MsgResponse) (tea.Model, tea.Cmd) {
	if err := m.Session.Check(msg.Service, msg.Generation); err != nil {
		slog.Debug("dropping response", "err", err)
		return m, nil
	}
	m.Session.End(session.ActionSend)

	result := msg.Result
	if msg.Err != nil {
		result = model.RequestResult{
			Status:  model.StatusError,
			Error:   msg.Err.Error(),
			Service: msg.Service,
		}
	}
	m.Session.SetResponse(&result)
	m.ResponseViewport.GotoTop()
	m.refreshResponse()
	return m, nil
}

func (m AppModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = true
		m.HelpScrollY = 0
		return m, nil
	case key.Matches(msg, m.keys.NextPane):
		m.Focus = (m.Focus + 1) % 4
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.Focus = (m.Focus + 3) % 4
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refreshServices()
	case key.Matches(msg, m.keys.Reload):
		return m.reloadFields()
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Send):
		return m.send()
	case key.Matches(msg, m.keys.Raw):
		m.ShowRaw = !m.ShowRaw
		m.refreshResponse()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		if m.Session == nil {
			return m, nil
		}
		m.Focus = PaneFields
		m.Mode = InputSearch
		m.InputBuffer.Placeholder = "name or path..."
		m.InputBuffer.SetValue(m.Session.Query)
		m.InputBuffer.CursorEnd()
		m.InputBuffer.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Escape):
		if m.Session != nil && m.Session.Query != "" {
			m.Session.SetQuery("")
			m.clampCursors()
		}
		return m, nil
	}

	switch m.Focus {
	case PaneServices:
		return m.updateServices(msg)
	case PaneFields:
		return m.updateFields(msg)
	case PaneRequest:
		return m.updateRequest(msg)
	case PaneResponse:
		var cmd tea.Cmd
		m.ResponseViewport, cmd = m.ResponseViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) updateServices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.ServiceIdx > 0 {
			m.ServiceIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.ServiceIdx < len(m.Services)-1 {
			m.ServiceIdx++
		}
	case key.Matches(msg, m.keys.Enter):
		if len(m.Services) == 0 {
			return m, nil
		}
		return m.loadService(m.Services[m.ServiceIdx].Name)
	}
	return m, nil
}

func (m AppModel) updateFields(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Session == nil {
		return m, nil
	}
	s := m.Session
	entry, ok := m.currentField()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.FieldIdx > 0 {
			m.FieldIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.FieldIdx < len(m.visibleFields())-1 {
			m.FieldIdx++
		}
	case key.Matches(msg, m.keys.Enter):
		if ok && entry.Record.HasChildren {
			s.ToggleExpanded(entry.Record.Path)
		}
	case key.Matches(msg, m.keys.Open):
		if ok && entry.Record.HasChildren {
			s.SetExpanded(entry.Record.Path, true)
		}
	case key.Matches(msg, m.keys.Close):
		if ok && entry.Record.HasChildren {
			s.SetExpanded(entry.Record.Path, false)
		}
	case key.Matches(msg, m.keys.Toggle):
		if !ok {
			break
		}
		if entry.Record.IsStructural {
			if entry.Record.HasChildren {
				s.ToggleExpanded(entry.Record.Path)
			}
			break
		}
		m.reportErr(s.ToggleSelected(entry.Record.Path, !entry.Record.Selected))
	case key.Matches(msg, m.keys.Deselect):
		if ok {
			m.reportErr(s.ToggleSelected(entry.Record.Path, false))
		}
	case key.Matches(msg, m.keys.Sensitive):
		if !ok {
			break
		}
		if entry.Record.IsStructural {
			m.setInfo("Structural fields cannot be marked sensitive")
			break
		}
		if !entry.Record.Selected {
			m.setInfo("Include the field before marking it sensitive")
			break
		}
		m.reportErr(s.ToggleSensitive(entry.Record.Path))
	case key.Matches(msg, m.keys.ExpandAll):
		s.ExpandAll()
	case key.Matches(msg, m.keys.Collapse):
		s.CollapseAll()
	case key.Matches(msg, m.keys.SelectAll):
		s.SelectAll()
	case key.Matches(msg, m.keys.ClearAll):
		s.DeselectAll()
	}

	m.clampCursors()
	return m, nil
}

func (m AppModel) updateRequest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Session == nil || len(m.Session.InputParams) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.ParamIdx > 0 {
			m.ParamIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.ParamIdx < len(m.Session.InputParams)-1 {
			m.ParamIdx++
		}
	case key.Matches(msg, m.keys.Enter):
		p := m.Session.InputParams[m.ParamIdx]
		m.Mode = InputParam
		m.InputBuffer.Placeholder = p.Example
		m.InputBuffer.SetValue(m.Session.Params[p.Name])
		m.InputBuffer.CursorEnd()
		m.InputBuffer.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// updateInput routes keys to the text input while searching or editing.
func (m AppModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.Mode == InputParam && m.Session != nil && m.ParamIdx < len(m.Session.InputParams) {
			p := m.Session.InputParams[m.ParamIdx]
			m.Session.SetParam(p.Name, m.InputBuffer.Value())
		}
		m.Mode = InputNone
		m.InputBuffer.Blur()
		return m, nil
	case tea.KeyEsc:
		if m.Mode == InputSearch && m.Session != nil {
			m.Session.SetQuery("")
			m.clampCursors()
		}
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.InputBuffer, cmd = m.InputBuffer.Update(msg)
	if m.Mode == InputSearch {
		m.Session.SetQuery(m.InputBuffer.Value())
		m.FieldIdx = 0
		m.clampCursors()
	}
	return m, cmd
}

func (m AppModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.HelpScrollY > 0 {
			m.HelpScrollY--
		}
	case key.Matches(msg, m.keys.Down):
		m.HelpScrollY++
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	default:
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.ShowHelp = false
		}
	}
	return m, nil
}

func (m AppModel) refreshServices() (tea.Model, tea.Cmd) {
	if m.ServicesLoading {
		m.setInfo("Service list is already loading")
		return m, nil
	}
	m.ServicesLoading = true
	return m, m.loadServicesCmd()
}

// loadService fetches the fields of name. A newer load supersedes any load
// still in flight.
func (m AppModel) loadService(name string) (tea.Model, tea.Cmd) {
	m.LoadSeq++
	m.LoadingName = name
	m.setInfo(fmt.Sprintf("Loading %s...", name))
	return m, m.loadFieldsCmd(name, m.LoadSeq, false, 0)
}

func (m AppModel) reloadFields() (tea.Model, tea.Cmd) {
	s := m.Session
	if s == nil {
		return m, nil
	}
	if err := s.Begin(session.ActionLoad); err != nil {
		m.setInfo("Fields are already reloading")
		return m, nil
	}
	return m, m.loadFieldsCmd(s.Service, 0, true, s.Generation)
}

func (m AppModel) save() (tea.Model, tea.Cmd) {
	s := m.Session
	if s == nil {
		m.setInfo("Select a service first")
		return m, nil
	}
	if err := s.Begin(session.ActionSave); err != nil {
		m.setInfo("Save already in progress")
		return m, nil
	}
	req := s.SaveRequest()
	s.Logger().Info("saving configuration", "fields", len(req.Fields))
	return m, m.saveCmd(req)
}

func (m AppModel) send() (tea.Model, tea.Cmd) {
	s := m.Session
	if s == nil {
		m.setInfo("Select a service first")
		return m, nil
	}
	if s.Endpoint == "" {
		m.setFailure(fmt.Sprintf("No endpoint known for %s", s.Service))
		return m, nil
	}
	if err := s.Begin(session.ActionSend); err != nil {
		m.setInfo("Request already in progress")
		return m, nil
	}
	s.SetResponse(nil)
	m.refreshResponse()
	params := s.RequestParams()
	s.Logger().Info("sending test request", "endpoint", s.Endpoint, "params", len(params))
	return m, m.sendCmd(s.Service, s.Generation, s.Endpoint, params)
}

// leaveInput closes the search or edit box and drops its text.
func (m *AppModel) leaveInput() {
	m.Mode = InputNone
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
}

func (m *AppModel) reportErr(err error) {
	switch {
	case err == nil:
	case errors.Is(err, fields.ErrStructuralField):
		m.setInfo("Structural fields cannot be marked sensitive")
	default:
		m.setFailure(err.Error())
	}
}

func (m *AppModel) nextSeq() int {
	m.msgSeq++
	return m.msgSeq
}

func (m *AppModel) setInfo(text string) {
	m.Message = session.Info(m.nextSeq(), text)
}

func (m *AppModel) setFailure(text string) {
	m.Message = session.Failure(m.nextSeq(), text)
}

// setSuccess shows a transient message and returns the command that
// clears it.
func (m *AppModel) setSuccess(text string) tea.Cmd {
	seq := m.nextSeq()
	m.Message = session.Success(seq, text, time.Now(), m.opts.MessageTTL)
	return expireCmd(seq, m.opts.MessageTTL)
}
