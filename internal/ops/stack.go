package ops

import (
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// registerStack wires the single-cell and double-cell ("2"-prefixed) stack
// shuffling words, grounded on stack_operations.rs's single generic family
// monomorphized over Value and DoubleValue.
func registerStack(e *engine.Engine) {
	registerStackWidth(e, "")
	registerStackWidth(e, "2")
}

// registerStackWidth registers one family of shuffling words operating on
// cellWidth cells at a time (1 for plain words, 2 for the "2"-prefixed
// double-cell forms, which move pairs of cells as a unit without caring
// whether the pair holds a Double number or two unrelated values).
func registerStackWidth(e *engine.Engine, prefix string) {
	width := 1
	if prefix == "2" {
		width = 2
	}

	popN := func(e *engine.Engine, n int) ([]memory.Value, error) {
		out := make([]memory.Value, n)
		for i := n - 1; i >= 0; i-- {
			v, err := e.Stack.PopValue()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	pushN := func(e *engine.Engine, vs []memory.Value) {
		for _, v := range vs {
			e.Stack.PushValue(v)
		}
	}

	e.Register(prefix+">R", false, func(e *engine.Engine) error {
		vs, err := popN(e, width)
		if err != nil {
			return err
		}
		for _, v := range vs {
			e.Return.PushValue(v)
		}
		return nil
	})
	e.Register(prefix+"R>", false, func(e *engine.Engine) error {
		vs := make([]memory.Value, width)
		for i := width - 1; i >= 0; i-- {
			v, err := e.Return.PopValue()
			if err != nil {
				return err
			}
			vs[i] = v
		}
		pushN(e, vs)
		return nil
	})
	e.Register(prefix+"R@", false, func(e *engine.Engine) error {
		vs := make([]memory.Value, width)
		for i := width - 1; i >= 0; i-- {
			v, err := e.Return.PeekAt(width - 1 - i)
			if err != nil {
				return err
			}
			vs[i] = v
		}
		pushN(e, vs)
		return nil
	})
	e.Register(prefix+"DUP", false, func(e *engine.Engine) error {
		vs, err := peekN(e, width)
		if err != nil {
			return err
		}
		pushN(e, vs)
		return nil
	})
	e.Register(prefix+"?DUP", false, func(e *engine.Engine) error {
		vs, err := peekN(e, width)
		if err != nil {
			return err
		}
		if vs[len(vs)-1].ToNumber() == 0 {
			return nil
		}
		pushN(e, vs)
		return nil
	})
	e.Register(prefix+"DROP", false, func(e *engine.Engine) error {
		_, err := popN(e, width)
		return err
	})
	e.Register(prefix+"SWAP", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		b, err := popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, a)
		pushN(e, b)
		return nil
	})
	e.Register(prefix+"OVER", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		b, err := popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, b)
		pushN(e, a)
		pushN(e, b)
		return nil
	})
	e.Register(prefix+"ROT", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		b, err := popN(e, width)
		if err != nil {
			return err
		}
		c, err := popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, b)
		pushN(e, a)
		pushN(e, c)
		return nil
	})
	e.Register(prefix+"-ROT", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		b, err := popN(e, width)
		if err != nil {
			return err
		}
		c, err := popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, c)
		pushN(e, a)
		pushN(e, b)
		return nil
	})
	e.Register(prefix+"NIP", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		_, err = popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, a)
		return nil
	})
	e.Register(prefix+"TUCK", false, func(e *engine.Engine) error {
		a, err := popN(e, width)
		if err != nil {
			return err
		}
		b, err := popN(e, width)
		if err != nil {
			return err
		}
		pushN(e, a)
		pushN(e, b)
		pushN(e, a)
		return nil
	})

	if prefix == "" {
		e.Register("PICK", false, func(e *engine.Engine) error {
			n, err := e.Stack.PopNumber()
			if err != nil {
				return err
			}
			v, err := e.Stack.PeekAt(int(n))
			if err != nil {
				return err
			}
			e.Stack.PushValue(v)
			return nil
		})
	}
}

func peekN(e *engine.Engine, n int) ([]memory.Value, error) {
	out := make([]memory.Value, n)
	for i := 0; i < n; i++ {
		v, err := e.Stack.PeekAt(n - 1 - i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
