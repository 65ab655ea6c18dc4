// Package ferr defines the closed set of error kinds the evaluator and its
// memory segments can raise, per spec.md §7. It is a leaf package: every
// other internal package may import it without risk of a cycle.
package ferr

import "fmt"

// Kind enumerates the error kinds named in spec.md §7.
type Kind int

const (
	DivisionByZero Kind = iota
	StackUnderflow
	UnknownWord
	InvalidWord
	InvalidAddress
	InvalidNumber
	InvalidExecutionToken
	InvalidSize
	InsufficientMemory
	AddressOutOfRange
	NoMoreTokens
	TokenStreamEmpty
	Exception
)

var names = [...]string{
	"DivisionByZero",
	"StackUnderflow",
	"UnknownWord",
	"InvalidWord",
	"InvalidAddress",
	"InvalidNumber",
	"InvalidExecutionToken",
	"InvalidSize",
	"InsufficientMemory",
	"AddressOutOfRange",
	"NoMoreTokens",
	"TokenStreamEmpty",
	"Exception",
}

func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Error is the evaluator's single error type. UnknownWord carries the
// offending word in Word; Exception carries the user THROW code in Code.
type Error struct {
	Kind Kind
	Word string
	Code int64
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownWord:
		return fmt.Sprintf("%v(%s)", e.Kind, e.Word)
	case Exception:
		return fmt.Sprintf("%v(%d)", e.Kind, e.Code)
	default:
		return e.Kind.String()
	}
}

// Is lets errors.Is(err, ferr.New(Kind)) match on kind alone, ignoring the
// payload — the word and exception code are diagnostic, not identity.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs a plain error of the given kind.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Unknown constructs an UnknownWord error for the given word.
func Unknown(word string) *Error { return &Error{Kind: UnknownWord, Word: word} }

// Thrown constructs an Exception error for the given THROW code.
func Thrown(code int64) *Error { return &Error{Kind: Exception, Code: code} }

var (
	ErrDivisionByZero         = New(DivisionByZero)
	ErrStackUnderflow         = New(StackUnderflow)
	ErrInvalidWord            = New(InvalidWord)
	ErrInvalidAddress         = New(InvalidAddress)
	ErrInvalidNumber          = New(InvalidNumber)
	ErrInvalidExecutionToken  = New(InvalidExecutionToken)
	ErrInvalidSize            = New(InvalidSize)
	ErrInsufficientMemory     = New(InsufficientMemory)
	ErrAddressOutOfRange      = New(AddressOutOfRange)
	ErrNoMoreTokens           = New(NoMoreTokens)
	ErrTokenStreamEmpty       = New(TokenStreamEmpty)
)
