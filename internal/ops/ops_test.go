package ops_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
	"github.com/thirdlang/thirdvm/internal/ops"
)

func newEngine(t *testing.T) (*engine.Engine, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	e := engine.New(engine.DefaultConfig(), engine.WithOutput(&out))
	ops.Register(e)
	return e, &out
}

func run(t *testing.T, e *engine.Engine, src string) {
	t.Helper()
	require.NoError(t, e.EvaluateString(src))
}

func TestArithmeticAndPrint(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "1 2 + .")
	require.Equal(t, "3 ", out.String())
}

func TestStackShuffling(t *testing.T) {
	e, _ := newEngine(t)
	run(t, e, "1 2 SWAP")
	require.Equal(t, []memory.Number{2, 1}, e.StackNumbers())
}

func TestColonDefinition(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": SQUARE DUP * ; 5 SQUARE .")
	require.Equal(t, "25 ", out.String())
}

func TestIfElseThen(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, `: SIGN DUP 0< IF DROP 2 ELSE 0= IF 1 ELSE 0 THEN THEN ;
		-5 SIGN . 0 SIGN . 5 SIGN .`)
	require.Equal(t, "2 1 0 ", out.String())
}

func TestDoLoopAccumulates(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": SUM 0 5 0 DO I + LOOP . ; SUM")
	require.Equal(t, "10 ", out.String())
}

func TestDoLoopLeave(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": FIRSTOVER3 10 0 DO I 3 > IF I LEAVE THEN LOOP . ; FIRSTOVER3")
	require.Equal(t, "4 ", out.String())
}

func TestBeginUntil(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": COUNTDOWN BEGIN DUP . 1- DUP 0= UNTIL DROP ; 3 COUNTDOWN")
	require.Equal(t, "3 2 1 ", out.String())
}

func TestBeginWhileRepeat(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": UPTO5 BEGIN DUP 5 < WHILE DUP . 1+ REPEAT DROP ; 0 UPTO5")
	require.Equal(t, "0 1 2 3 4 ", out.String())
}

func TestVariableStorage(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "VARIABLE X 41 X ! X @ 1+ .")
	require.Equal(t, "42 ", out.String())
}

func TestConstant(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "100 CONSTANT CENTURY CENTURY .")
	require.Equal(t, "100 ", out.String())
}

func TestValueAndTo(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "10 VALUE COUNT COUNT . 20 TO COUNT COUNT .")
	require.Equal(t, "10 20 ", out.String())
}

func TestCreateDoesBuildsArray(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, `
		: ARRAY CREATE CELLS ALLOT DOES> + ;
		3 ARRAY NUMS
		10 0 CELLS NUMS !
		20 1 CELLS NUMS !
		30 2 CELLS NUMS !
		1 CELLS NUMS @ .
	`)
	require.Equal(t, "20 ", out.String())
}

func TestLocals(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, ": MID { a b c } b ; 1 2 3 MID .")
	require.Equal(t, "2 ", out.String())
}

func TestThrowPropagatesAsException(t *testing.T) {
	e, _ := newEngine(t)
	err := e.EvaluateString("7 THROW")
	require.Error(t, err)
}

func TestThrowZeroIsBenign(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.EvaluateString("0 THROW"))
}

func TestPostponeReplaysImmediate(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, `: MY-IF POSTPONE IF ; IMMEDIATE
		: TEST -1 MY-IF 1 ELSE 2 THEN . ;
		TEST`)
	require.Equal(t, "1 ", out.String())
}

func TestCountReadsLengthPrefix(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "CREATE BUF 4 ALLOT 3 BUF C! 65 BUF 1 + C! 66 BUF 2 + C! 67 BUF 3 + C! BUF COUNT .")
	require.Equal(t, "3 ", out.String())
}

func TestTrailingTrimsWhitespace(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "CREATE BUF 4 ALLOT 65 BUF C! 66 BUF 1 + C! 32 BUF 2 + C! 32 BUF 3 + C! BUF 4 -TRAILING .")
	require.Equal(t, "2 ", out.String())
}

func TestWordAndEvaluate(t *testing.T) {
	e, out := newEngine(t)
	run(t, e, "124 WORD 1 2 + .| COUNT EVALUATE")
	require.Equal(t, "3 ", out.String())
}
