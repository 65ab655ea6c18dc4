package kernel

import (
	"fmt"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// instructionCounts tallies dispatches by execution token, keyed on the
// token's (kind, offset) pair rather than the ExecutionToken struct, so
// that tokens memory.ExecutionToken.Equal treats as the same share a count.
type instructionCounts struct {
	total int
	byKey map[tokenKey]int
	names map[tokenKey]string
}

type tokenKey struct {
	kind   memory.TokenKind
	offset int64
}

func keyOf(xt memory.ExecutionToken) tokenKey { return tokenKey{xt.Kind, xt.ToOffset()} }

func newInstructionCounts() *instructionCounts {
	return &instructionCounts{byKey: make(map[tokenKey]int), names: make(map[tokenKey]string)}
}

func (c *instructionCounts) record(e *engine.Engine, xt memory.ExecutionToken) {
	c.total++
	c.byKey[keyOf(xt)]++
	k := keyOf(xt)
	if _, ok := c.names[k]; !ok {
		c.names[k] = stringifyValue(e, memory.TokenValue(xt))
	}
}

func (c *instructionCounts) dump(e *engine.Engine) {
	e.Writeln(fmt.Sprintf("total instructions: %d", c.total))
	for k, count := range c.byKey {
		e.Writeln(fmt.Sprintf("   %30s: %d", c.names[k], count))
	}
}

// profilingWord tracks a single word PROFILE_WORD has been asked to scope
// local recording to, per profiler.rs's ProfilingWord.
type profilingWord struct {
	xt             memory.ExecutionToken
	stackDepth     int
	manuallyCalled bool
}

// Profiler is a kernel observer that counts every dispatch, globally and
// (optionally) scoped to a target word between its call and return,
// detected by return-stack depth. Grounded on
// original_source/src/debugging/profiler.rs's ProfilerKernel.
type Profiler struct {
	engine.NopObserver

	global *instructionCounts
	local  *instructionCounts

	recording bool
	target    *profilingWord
}

// NewProfiler constructs an idle Profiler.
func NewProfiler() *Profiler {
	return &Profiler{global: newInstructionCounts(), local: newInstructionCounts()}
}

func (p *Profiler) AfterDispatch(e *engine.Engine, xt memory.ExecutionToken) error {
	p.global.record(e, xt)

	if p.recording && p.target != nil {
		_, ipValid := e.IP()
		if p.target.manuallyCalled {
			p.recording = ipValid
		} else {
			p.recording = p.target.stackDepth < e.Return.Depth()
		}
	}

	if p.target != nil && keyOf(p.target.xt) == keyOf(xt) && !p.recording {
		_, ipValid := e.IP()
		p.target.stackDepth = e.Return.Depth()
		p.target.manuallyCalled = !ipValid
		p.recording = true
	}

	if p.recording {
		p.local.record(e, xt)
	}

	return nil
}

// HandleUnknownWord intercepts the four PROFILE_* control words, the same
// way profiler.rs's handle_error matches on UnknownWord("PROFILE_...").
func (p *Profiler) HandleUnknownWord(e *engine.Engine, word string) (bool, error) {
	switch word {
	case "PROFILE_START":
		p.recording = true
		p.target = nil
		p.local = newInstructionCounts()
		return true, nil

	case "PROFILE_END":
		p.recording = false
		p.target = nil
		p.local.dump(e)
		return true, nil

	case "PROFILE_STATS":
		e.Writeln("Global Profiling Stats:")
		p.global.dump(e)
		e.Writeln("Local Profiling Stats:")
		p.local.dump(e)
		return true, nil

	case "PROFILE_WORD":
		name, err := e.Input.NextWord()
		if err != nil {
			return true, err
		}
		def, err := e.Dict.GetFromName(name)
		if err != nil {
			return true, err
		}
		p.target = &profilingWord{xt: def.ExecutionToken}
		p.local = newInstructionCounts()
		e.Writeln("Profiling " + stringifyValue(e, memory.TokenValue(def.ExecutionToken)))
		return true, nil

	default:
		return false, nil
	}
}
