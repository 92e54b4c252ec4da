// Package tui is the terminal console for configuring response fields.
package tui

import (
	"context"
	_ "embed"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"xroadfields/internal/model"
	"xroadfields/internal/session"
)

//go:embed help.md
var helpContent string

// Backend is the admin API used by the console.
type Backend interface {
	ListServices(ctx context.Context, wsdlURL string) ([]model.Service, error)
	ServiceFields(ctx context.Context, service string) (model.ServiceFields, error)
	SaveFields(ctx context.Context, service string, fields []model.FieldRecord) error
	SendRequest(ctx context.Context, service, endpoint string, params map[string]string) (model.RequestResult, error)
}

// Options configures the console.
type Options struct {
	Backend        Backend
	WSDLURL        string
	Timeout        time.Duration
	RequestTimeout time.Duration
	MessageTTL     time.Duration
	IndentWidth    int
	// Notice is shown as a persistent error until the next message.
	Notice string
}

// Pane identifies the focused panel.
type Pane int

const (
	PaneServices Pane = iota
	PaneFields
	PaneRequest
	PaneResponse
)

var paneNames = [...]string{"Services", "Fields", "Request", "Response"}

func (p Pane) String() string {
	return paneNames[p]
}

// InputMode tells where typed characters go.
type InputMode int

const (
	InputNone InputMode = iota
	InputSearch
	InputParam
)

// AppModel holds the TUI state.
type AppModel struct {
	opts Options

	// Services
	Services        []model.Service
	ServiceIdx      int
	ServicesLoading bool

	// Field loading. LoadSeq identifies the latest request; replies with an
	// older sequence number are dropped.
	LoadSeq     uint64
	LoadingName string

	// Session of the loaded service, nil until the first load succeeds.
	Session *session.Session

	// UI State
	Focus      Pane
	FieldIdx   int
	ParamIdx   int
	ShowRaw    bool
	ShowHelp   bool
	WindowSize tea.WindowSizeMsg

	Message session.Message
	msgSeq  int

	Mode        InputMode
	InputBuffer textinput.Model

	// Components
	ResponseViewport viewport.Model
	Spinner          spinner.Model
	help             help.Model
	keys             keyMap
	HelpScrollY      int
	HelpContent      string
}

// InitialModel returns the initial state.
func InitialModel(opts Options) AppModel {
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = session.DefaultMessageTTL
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 2
	}

	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := AppModel{
		opts:             opts,
		ServicesLoading:  true,
		InputBuffer:      ti,
		ResponseViewport: viewport.New(40, 10),
		Spinner:          sp,
		help:             help.New(),
		keys:             defaultKeyMap(),
		HelpContent:      helpContent,
	}
	if opts.Notice != "" {
		m.setFailure(opts.Notice)
	}
	return m
}

// Init starts the service list fetch.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadServicesCmd())
}

// Busy reports whether any network action is pending.
func (m AppModel) Busy() bool {
	if m.ServicesLoading || m.LoadingName != "" {
		return true
	}
	if m.Session == nil {
		return false
	}
	return m.Session.Busy(session.ActionLoad) || m.Session.Busy(session.ActionSave) || m.Session.Busy(session.ActionSend)
}

// visibleFields returns the rows of the field pane.
func (m AppModel) visibleFields() []model.TraversalEntry {
	if m.Session == nil {
		return nil
	}
	return m.Session.Visible()
}

// currentField returns the record under the cursor.
func (m AppModel) currentField() (model.TraversalEntry, bool) {
	entries := m.visibleFields()
	if m.FieldIdx < 0 || m.FieldIdx >= len(entries) {
		return model.TraversalEntry{}, false
	}
	return entries[m.FieldIdx], true
}

func (m *AppModel) clampCursors() {
	if n := len(m.visibleFields()); m.FieldIdx >= n {
		m.FieldIdx = n - 1
	}
	if m.FieldIdx < 0 {
		m.FieldIdx = 0
	}
	if n := len(m.Services); m.ServiceIdx >= n {
		m.ServiceIdx = n - 1
	}
	if m.ServiceIdx < 0 {
		m.ServiceIdx = 0
	}
	if m.Session != nil {
		if n := len(m.Session.InputParams); m.ParamIdx >= n {
			m.ParamIdx = n - 1
		}
	}
	if m.ParamIdx < 0 {
		m.ParamIdx = 0
	}
}
