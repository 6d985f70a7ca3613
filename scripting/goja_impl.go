package scripting

import (
	"context"
	"errors"

	"github.com/dop251/goja"
)

// Call records one viewer API call made by a script.
type Call struct {
	Method string
	Arg    string
}

// Engine runs document scripts against a stand-in for the viewer's app
// object. Only app.alert and app.beep are provided.
type Engine struct {
	vm    *goja.Runtime
	calls []Call
}

func NewEngine() *Engine {
	e := &Engine{vm: goja.New()}
	app := e.vm.NewObject()
	_ = app.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		e.calls = append(e.calls, Call{Method: "alert", Arg: msg})
		return goja.Undefined()
	})
	_ = app.Set("beep", func(goja.FunctionCall) goja.Value {
		e.calls = append(e.calls, Call{Method: "beep"})
		return goja.Undefined()
	})
	e.vm.Set("app", app)
	return e
}

// Execute runs script until it finishes or ctx is done.
func (e *Engine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	// The watcher must be gone before the interrupt flag is cleared, or a
	// late Interrupt would poison the next Execute.
	defer func() {
		close(done)
		<-stopped
		e.vm.ClearInterrupt()
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// Calls returns the viewer calls recorded so far.
func (e *Engine) Calls() []Call { return e.calls }

// DryRun executes src in a fresh engine and returns the viewer calls it
// made. Calls recorded before a failure are returned with the error.
func DryRun(ctx context.Context, src string) ([]Call, error) {
	if err := Validate(src); err != nil {
		return nil, err
	}
	e := NewEngine()
	_, err := e.Execute(ctx, src)
	return e.Calls(), err
}
