package engine_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

func newEngine(t *testing.T) (*engine.Engine, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	e := engine.New(engine.DefaultConfig(), engine.WithOutput(&out))
	return e, &out
}

// registerPrintTop registers a leaf word that pops a number and writes it,
// standing in for internal/ops' "." during these engine-only tests (which
// must not import internal/ops, or the dependency would invert).
func registerPrintTop(e *engine.Engine) {
	e.Register(".", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		return e.Write(fmt.Sprintf("%d", n))
	})
	e.Register("+", false, func(e *engine.Engine) error {
		b, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		a, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		e.Stack.PushNumber(a + b)
		return nil
	})
}

func TestExecuteNumberPushesToStack(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.Execute(memory.NumberToken(7)))
	require.Equal(t, []memory.Number{7}, e.StackNumbers())
}

func TestExecuteLeafInvokesBuiltin(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)
	e.Stack.PushNumber(5)
	def, err := e.Dict.GetFromName(".")
	require.NoError(t, err)
	require.NoError(t, e.Execute(def.ExecutionToken))
	require.Equal(t, "5", out.String())
}

func TestInterpretModeExecutesImmediately(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)
	require.NoError(t, e.EvaluateString("3 ."))
	require.Equal(t, "3", out.String())
}

// TestCompileModeDefersNonImmediateWords builds a minimal colon-style
// definition by hand (without internal/ops' ":"/";" words) to exercise the
// outer loop's compile-vs-interpret split directly: switch to Compile mode,
// feed a non-immediate word, and confirm it lands in data space as a
// compiled value rather than running.
func TestCompileModeDefersNonImmediateWords(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)

	start := e.Data.Top()
	e.Mode = engine.Compile
	require.NoError(t, e.EvaluateString("."))
	e.Mode = engine.Interpret

	require.Equal(t, "", out.String(), "a non-immediate word in compile mode must not run")

	v, err := e.Data.ReadValue(start)
	require.NoError(t, err)
	dotDef, err := e.Dict.GetFromName(".")
	require.NoError(t, err)
	require.Equal(t, dotDef.ExecutionToken, v.ToToken(), "the word's xt should have been appended as a literal value")
}

// TestCompileModeStillRunsImmediateWords confirms the other half of the
// split: an immediate definition executes even while compiling.
func TestCompileModeStillRunsImmediateWords(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)
	dotDef, err := e.Dict.GetFromName(".")
	require.NoError(t, err)
	e.Dict.Add(".", dotDef)          // rebind "." so it is the most recent entry
	e.Dict.MakeMostRecentImmediate() // marks "." immediate after the fact

	e.Mode = engine.Compile
	e.Stack.PushNumber(9)
	require.NoError(t, e.EvaluateString("."))
	e.Mode = engine.Interpret

	require.Equal(t, "9", out.String(), "an immediate word must run even in compile mode")
}

// TestCallAndReturnFrom exercises the Definition branch of Execute by hand:
// write a two-cell body (push 4, return_from) into data space, wrap it in a
// Definition token, and execute it via Execute rather than through any
// colon-compiler.
func TestCallAndReturnFrom(t *testing.T) {
	e, _ := newEngine(t)
	registerPrintTop(e)

	returnXT := e.RegisterAnonymous(func(e *engine.Engine) error { return e.ReturnFrom() })
	pushXT := e.Instrs.CompilePush(memory.NumberValue(4))

	body := e.Data.Top()
	e.Data.Push(memory.TokenValue(pushXT))
	e.Data.Push(memory.TokenValue(returnXT))

	defXT := memory.DefinitionToken(body)
	require.NoError(t, e.Execute(defXT))
	require.Equal(t, []memory.Number{4}, e.StackNumbers())

	_, valid := e.IP()
	require.False(t, valid, "IP should be back at rest after the call unwinds")
}

// TestNestedCallRestoresOuterIP confirms a call from inside a call resumes
// the outer body at the right address afterward, rather than falling all
// the way out.
func TestNestedCallRestoresOuterIP(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)
	dotDef, err := e.Dict.GetFromName(".")
	require.NoError(t, err)

	returnXT := e.RegisterAnonymous(func(e *engine.Engine) error { return e.ReturnFrom() })

	inner := e.Data.Top()
	e.Data.Push(memory.TokenValue(e.Instrs.CompilePush(memory.NumberValue(11))))
	e.Data.Push(memory.TokenValue(returnXT))
	innerXT := memory.DefinitionToken(inner)

	outer := e.Data.Top()
	e.Data.Push(memory.TokenValue(innerXT))
	e.Data.Push(memory.TokenValue(dotDef.ExecutionToken))
	e.Data.Push(memory.TokenValue(returnXT))
	outerXT := memory.DefinitionToken(outer)

	require.NoError(t, e.Execute(outerXT))
	require.Equal(t, "11", out.String(), "outer's \".\" must run after inner's call unwinds")
}

type recordingObserver struct {
	engine.NopObserver
	dispatches int
}

func (r *recordingObserver) AfterDispatch(e *engine.Engine, xt memory.ExecutionToken) error {
	r.dispatches++
	return nil
}

func TestObserverRunsAfterEveryDispatch(t *testing.T) {
	obs := &recordingObserver{}
	e := engine.New(engine.DefaultConfig(), engine.WithOutput(new(strings.Builder)), engine.WithObserver(obs))
	registerPrintTop(e)
	require.NoError(t, e.EvaluateString("1 2 + ."))
	require.Greater(t, obs.dispatches, 0, "AfterDispatch must fire for every Execute call, not just the outer loop's top-level token")
}

type debugObserver struct {
	engine.NopObserver
	handledWord string
}

func (d *debugObserver) HandleUnknownWord(e *engine.Engine, word string) (bool, error) {
	if word == "PING" {
		d.handledWord = word
		return true, nil
	}
	return false, nil
}

func TestObserverCanInterceptUnknownWord(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), engine.WithOutput(new(strings.Builder)))
	obs := &debugObserver{}
	e.Observers = append(e.Observers, obs)

	require.NoError(t, e.EvaluateString("PING"))
	require.Equal(t, "PING", obs.handledWord)
}

func TestUnhandledUnknownWordPropagates(t *testing.T) {
	e, _ := newEngine(t)
	err := e.EvaluateString("NOSUCHWORD")
	require.Error(t, err)
	var ferrErr *ferr.Error
	require.ErrorAs(t, err, &ferrErr)
	require.Equal(t, ferr.UnknownWord, ferrErr.Kind)
}

func TestEvaluateStringRestoresPriorInputStream(t *testing.T) {
	e, out := newEngine(t)
	registerPrintTop(e)
	e.Dict.Add("NESTED", dict.Definition{ExecutionToken: e.RegisterAnonymous(func(e *engine.Engine) error {
		return e.EvaluateString("9 .")
	})})

	require.NoError(t, e.EvaluateString("NESTED 1 ."))
	require.Equal(t, "91", out.String(), "the outer \"1 .\" must still run after the nested evaluation")
}
