package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

const (
	translateFunc   = "translate"
	attributionName = "attribution"
)

// ErrStateClosed is returned when calling into a closed plugin.
var ErrStateClosed = errors.New("lua state is closed")

// Provider is a translation provider backed by a Lua script.
type Provider struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewProvider loads script into a fresh sandboxed state.
func NewProvider(script string) (*Provider, error) {
	L := newSandboxedState()

	if err := L.DoFile(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load %s: %w", script, err)
	}

	if _, ok := L.GetGlobal(translateFunc).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("%s does not define a %s function", script, translateFunc)
	}

	return &Provider{L: L}, nil
}

// newSandboxedState opens only the safe standard libraries.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}

// AttributionMarkup returns the script's attribution, empty when it defines none.
func (p *Provider) AttributionMarkup(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return "", ErrStateClosed
	}

	switch v := p.L.GetGlobal(attributionName).(type) {
	case lua.LString:
		return string(v), nil
	case *lua.LFunction:
		ret, err := p.call(ctx, v)
		if err != nil {
			return "", err
		}
		return lua.LVAsString(ret), nil
	default:
		return "", nil
	}
}

// Translate calls translate(text, from, to). A nil or empty return means no translation.
func (p *Provider) Translate(ctx context.Context, text string, opts domain.TranslateOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return "", ErrStateClosed
	}

	fn, ok := p.L.GetGlobal(translateFunc).(*lua.LFunction)
	if !ok {
		return "", fmt.Errorf("%s is no longer a function", translateFunc)
	}

	ret, err := p.call(ctx, fn, lua.LString(text), lua.LString(opts.From), lua.LString(opts.To))
	if err != nil {
		observability.FromContext(ctx).Warn("lua translate failed", observability.Error(err))
		return "", err
	}

	translated, ok := ret.(lua.LString)
	if !ok || translated == "" {
		return "", domain.ErrNoTranslation
	}

	return string(translated), nil
}

// call invokes fn with ctx installed for cancellation. Callers must hold mu.
func (p *Provider) call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	if err := p.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}

	ret := p.L.Get(-1)
	p.L.Pop(1)

	return ret, nil
}

// Close releases the Lua state. It is safe to call Close multiple times.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.L.Close()
}

var _ domain.Provider = (*Provider)(nil)
