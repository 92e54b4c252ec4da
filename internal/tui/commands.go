package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xroadfields/internal/model"
	"xroadfields/internal/session"
)

// MsgServicesLoaded carries the result of a service list fetch.
type MsgServicesLoaded struct {
	Services []model.Service
	Err      error
}

// MsgFieldsLoaded carries the fields of a service. Reload is set when the
// fetch refreshes the current session instead of opening a new one.
type MsgFieldsLoaded struct {
	Service    string
	Seq        uint64
	Reload     bool
	Generation uint64
	Fields     model.ServiceFields
	Err        error
}

// MsgSaved reports the outcome of a configuration save.
type MsgSaved struct {
	Service    string
	Generation uint64
	Count      int
	Err        error
}

// MsgResponse carries the outcome of a test request.
type MsgResponse struct {
	Service    string
	Generation uint64
	Result     model.RequestResult
	Err        error
}

// MsgExpire clears the status message with the given sequence number.
type MsgExpire struct {
	Seq int
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

func (m AppModel) loadServicesCmd() tea.Cmd {
	backend, wsdl, timeout := m.opts.Backend, m.opts.WSDLURL, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		services, err := backend.ListServices(ctx, wsdl)
		return MsgServicesLoaded{Services: services, Err: err}
	}
}

func (m AppModel) loadFieldsCmd(service string, seq uint64, reload bool, gen uint64) tea.Cmd {
	backend, timeout := m.opts.Backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		sf, err := backend.ServiceFields(ctx, service)
		return MsgFieldsLoaded{
			Service:    service,
			Seq:        seq,
			Reload:     reload,
			Generation: gen,
			Fields:     sf,
			Err:        err,
		}
	}
}

func (m AppModel) saveCmd(req session.SaveRequest) tea.Cmd {
	backend, timeout := m.opts.Backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		err := req.Submit(ctx, backend)
		return MsgSaved{
			Service:    req.Service,
			Generation: req.Generation,
			Count:      len(req.Fields),
			Err:        err,
		}
	}
}

func (m AppModel) sendCmd(service string, gen uint64, endpoint string, params map[string]string) tea.Cmd {
	backend, timeout := m.opts.Backend, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		res, err := backend.SendRequest(ctx, service, endpoint, params)
		return MsgResponse{Service: service, Generation: gen, Result: res, Err: err}
	}
}

func expireCmd(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return MsgExpire{Seq: seq}
	})
}
