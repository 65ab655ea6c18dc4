package engine

import "github.com/thirdlang/thirdvm/internal/memory"

// Observer is a kernel-extension-chain member, run after every dispatch —
// every call to Execute, at every nesting depth, not just once per outer-
// loop token. Spec §4.6: "The engine is re-entrant for the duration of one
// call from the outer loop... After every dispatch, an extension chain
// ('kernel') runs: a list of auxiliary observers (debugger, profiler) each
// given the same state." Grounded on original_source/src/evaluate/
// kernels.rs's Kernel trait (whose evaluate hook fires on every dispatched
// instruction, which is how profiler.rs counts individual compiled
// instructions, not just top-level words) — reshaped from Rust's compile-
// time linked-type-list into a plain Go slice dispatched in order (per spec
// DESIGN NOTES §9: "use a linked type-list or a vector of observers with
// explicit dispatch order").
type Observer interface {
	// AfterDispatch runs once per Execute call, after xt has run
	// successfully.
	AfterDispatch(e *Engine, xt memory.ExecutionToken) error

	// HandleUnknownWord gives an observer the chance to intercept an
	// UnknownWord error before it propagates to the embedder. Spec §7:
	// "a chain member may intercept an unknown word (the profiler uses
	// this for its control words)." Returning handled=false lets the next
	// observer (or the default propagation) take over.
	HandleUnknownWord(e *Engine, word string) (handled bool, err error)
}

// NopObserver implements Observer as a no-op, useful to embed in an
// observer that only cares about one of the two hooks.
type NopObserver struct{}

func (NopObserver) AfterDispatch(*Engine, memory.ExecutionToken) error { return nil }

func (NopObserver) HandleUnknownWord(*Engine, string) (bool, error) { return false, nil }

func (e *Engine) runObservers(xt memory.ExecutionToken) error {
	for _, obs := range e.Observers {
		if err := obs.AfterDispatch(e, xt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) tryHandleUnknownWord(word string) (bool, error) {
	for _, obs := range e.Observers {
		if handled, err := obs.HandleUnknownWord(e, word); handled || err != nil {
			return handled, err
		}
	}
	return false, nil
}
