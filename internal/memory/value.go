package memory

import "fmt"

// TokenKind discriminates the variants of ExecutionToken. Spec §3.
type TokenKind uint8

const (
	// TokenNumber is a pushed literal.
	TokenNumber TokenKind = iota
	// TokenLeaf is an opaque handle to a native (built-in) operation,
	// identified by its index into the evaluator's builtin table.
	TokenLeaf
	// TokenCompiledInstruction indexes into the compiled-instructions table.
	TokenCompiledInstruction
	// TokenDefinition is the data-space address where a user-defined word's
	// body begins.
	TokenDefinition
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenLeaf:
		return "leaf"
	case TokenCompiledInstruction:
		return "compiled-instruction"
	case TokenDefinition:
		return "definition"
	default:
		return "invalid"
	}
}

// ExecutionToken (xt) is a first-class handle representing something
// callable. Spec §3: "LeafOperation, CompiledInstruction(idx),
// Definition(address), Number(n)". Kept as plain tagged data (rather than a
// boxed closure, per DESIGN NOTES §9's "tagged sum if the universe is
// closed") so that it can live in this leaf package without the evaluator
// needing to hand back references to itself.
type ExecutionToken struct {
	Kind    TokenKind
	Index   int     // TokenLeaf / TokenCompiledInstruction
	Address Address // TokenDefinition
	Number  Number  // TokenNumber
}

// LeafToken constructs a TokenLeaf execution token for builtin index i.
func LeafToken(i int) ExecutionToken { return ExecutionToken{Kind: TokenLeaf, Index: i} }

// CompiledInstructionToken constructs a TokenCompiledInstruction xt for
// table index i.
func CompiledInstructionToken(i int) ExecutionToken {
	return ExecutionToken{Kind: TokenCompiledInstruction, Index: i}
}

// DefinitionToken constructs a TokenDefinition xt pointing at addr.
func DefinitionToken(addr Address) ExecutionToken {
	return ExecutionToken{Kind: TokenDefinition, Address: addr}
}

// NumberToken constructs a TokenNumber xt, a pushed literal.
func NumberToken(n Number) ExecutionToken { return ExecutionToken{Kind: TokenNumber, Number: n} }

// ToOffset returns a variant-appropriate integer payload, used for equality,
// hashing and diagnostics — mirrors ExecutionToken::to_offset in
// original_source/src/evaluate/definition.rs.
func (xt ExecutionToken) ToOffset() int64 {
	switch xt.Kind {
	case TokenLeaf, TokenCompiledInstruction:
		return int64(xt.Index)
	case TokenDefinition:
		return xt.Address.Raw()
	case TokenNumber:
		return xt.Number
	default:
		return 0
	}
}

// Equal reports whether two tokens have the same variant and payload.
func (xt ExecutionToken) Equal(other ExecutionToken) bool {
	return xt.Kind == other.Kind && xt.ToOffset() == other.ToOffset()
}

func (xt ExecutionToken) String() string {
	switch xt.Kind {
	case TokenLeaf:
		return fmt.Sprintf("leaf @ %d", xt.Index)
	case TokenCompiledInstruction:
		return fmt.Sprintf("compiled instruction @ offset %d", xt.Index)
	case TokenDefinition:
		return fmt.Sprintf("definition @ %v", xt.Address)
	case TokenNumber:
		return fmt.Sprintf("push %d", xt.Number)
	default:
		return "invalid xt"
	}
}

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	ValueIsNumber ValueKind = iota
	ValueIsToken
)

// Value is a tagged cell payload: either a Number or an ExecutionToken.
// Spec §3: "A value occupies exactly one cell."
type Value struct {
	Kind   ValueKind
	Number Number
	Token  ExecutionToken
}

// NumberValue wraps a plain Number as a Value.
func NumberValue(n Number) Value { return Value{Kind: ValueIsNumber, Number: n} }

// TokenValue wraps an ExecutionToken as a Value.
func TokenValue(xt ExecutionToken) Value { return Value{Kind: ValueIsToken, Token: xt} }

// ToNumber coerces the value to a Number the way the original source does:
// an ExecutionToken coerces to its offset.
func (v Value) ToNumber() Number {
	if v.Kind == ValueIsToken {
		return v.Token.ToOffset()
	}
	return v.Number
}

// ToToken coerces the value to an ExecutionToken: a bare Number is treated
// as a TokenNumber literal (so that compiled bodies can be walked uniformly
// as a stream of execution tokens, per spec §4.6.2).
func (v Value) ToToken() ExecutionToken {
	if v.Kind == ValueIsToken {
		return v.Token
	}
	return NumberToken(v.Number)
}

func (v Value) String() string {
	if v.Kind == ValueIsToken {
		return v.Token.String()
	}
	return fmt.Sprintf("%d", v.Number)
}
