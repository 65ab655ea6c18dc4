package kernel_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/kernel"
	"github.com/thirdlang/thirdvm/internal/ops"
)

func newEngine(t *testing.T, obs ...engine.Observer) (*engine.Engine, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	opts := []engine.Option{engine.WithOutput(&out)}
	for _, o := range obs {
		opts = append(opts, engine.WithObserver(o))
	}
	e := engine.New(engine.DefaultConfig(), opts...)
	ops.Register(e)
	return e, &out
}

func TestDebuggerStackPrintsCurrentDepth(t *testing.T) {
	e, out := newEngine(t, &kernel.Debugger{})
	require.NoError(t, e.EvaluateString("1 2 3 DEBUG STACK END"))
	require.Equal(t, 3, strings.Count(out.String(), "\n"), "one line per stack entry")
}

func TestDebuggerEndStopsTheCommandLoopWithoutRunningFurtherInput(t *testing.T) {
	e, out := newEngine(t, &kernel.Debugger{})
	require.NoError(t, e.EvaluateString("DEBUG END 9 ."))
	require.Equal(t, "9 ", out.String(), "evaluation resumes normally on the outer input stream after END")
}

// TestDebuggerUnknownCommandWordRunsAsADictionaryWord confirms a word that
// isn't one of STACK/RETURNSTACK/MEMORY/X/END falls through to normal
// dictionary dispatch. Note the debug loop reads commands via NextWord,
// which (per internal/token) rejects bare integers — so values must
// already be on the data stack before DEBUG is entered.
func TestDebuggerUnknownCommandWordRunsAsADictionaryWord(t *testing.T) {
	e, out := newEngine(t, &kernel.Debugger{})
	require.NoError(t, e.EvaluateString("5 DEBUG DUP + . END"))
	require.Equal(t, "10 ", out.String(), "DUP and + inside DEBUG dispatch like the outer loop would")
}

func TestDebuggerXExaminesACellAsANumber(t *testing.T) {
	e, out := newEngine(t, &kernel.Debugger{})
	require.NoError(t, e.EvaluateString("VARIABLE V 41 V ! V DEBUG X N END"))
	require.Contains(t, out.String(), "41")
}

func TestDebuggerUnhandledUnknownWordStillPropagatesAsError(t *testing.T) {
	e, _ := newEngine(t, &kernel.Debugger{})
	err := e.EvaluateString("DEBUG NOSUCHWORD END")
	require.Error(t, err)
}

func TestProfilerCountsGlobalDispatches(t *testing.T) {
	p := kernel.NewProfiler()
	e, out := newEngine(t, p)
	require.NoError(t, e.EvaluateString("1 2 + . PROFILE_STATS"))
	require.Contains(t, out.String(), "Global Profiling Stats:")
	require.Contains(t, out.String(), "total instructions:")
}

func TestProfilerStartEndScopesLocalRecording(t *testing.T) {
	p := kernel.NewProfiler()
	e, out := newEngine(t, p)
	require.NoError(t, e.EvaluateString("PROFILE_START 1 2 + . PROFILE_END"))
	require.Contains(t, out.String(), "total instructions:")
}

func TestProfilerWordScopesToASingleDefinitionsCalls(t *testing.T) {
	p := kernel.NewProfiler()
	e, out := newEngine(t, p)
	require.NoError(t, e.EvaluateString(": TRIPLE DUP DUP + + ; PROFILE_WORD TRIPLE 5 TRIPLE . PROFILE_STATS"))
	require.Contains(t, out.String(), "Profiling")
	require.Contains(t, out.String(), "Local Profiling Stats:")
}
