package ops

import "github.com/thirdlang/thirdvm/internal/engine"

// Register installs the complete built-in word set on e. Compiler must run
// before Data: CREATE (in data.go) reuses the break leaf registerCompiler
// installs for ";".
func Register(e *engine.Engine) {
	registerArithmetic(e)
	registerStack(e)
	registerMemory(e)
	registerControlFlow(e)
	registerCompiler(e)
	registerData(e)
	registerStrings(e)
}
