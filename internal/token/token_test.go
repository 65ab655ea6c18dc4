package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/token"
)

func TestTokenizeLiterals(t *testing.T) {
	tok := token.Tokenize("0x2A")
	require.Equal(t, token.Integer, tok.Kind)
	require.EqualValues(t, 42, tok.Number)

	tok = token.Tokenize("0b101")
	require.Equal(t, token.Integer, tok.Kind)
	require.EqualValues(t, 5, tok.Number)

	tok = token.Tokenize("-3")
	require.Equal(t, token.Integer, tok.Kind)
	require.EqualValues(t, -3, tok.Number)
}

func TestTokenizeWordIsUppercased(t *testing.T) {
	tok := token.Tokenize("dup")
	require.Equal(t, token.Word, tok.Kind)
	require.Equal(t, "DUP", tok.Word)
}

func TestStreamNextSplitsOnWhitespace(t *testing.T) {
	s := token.NewStream(strings.NewReader("  dup 1 2\tswap  "))

	want := []token.Token{
		{Kind: token.Word, Word: "DUP"},
		{Kind: token.Integer, Number: 1},
		{Kind: token.Integer, Number: 2},
		{Kind: token.Word, Word: "SWAP"},
	}
	for _, w := range want {
		got, err := s.Next()
		require.NoError(t, err)
		require.Equal(t, w, got)
	}

	_, err := s.Next()
	require.ErrorIs(t, err, ferr.ErrNoMoreTokens)
}

func TestStreamPrependReturnsTokenFirst(t *testing.T) {
	s := token.NewStream(strings.NewReader("real"))
	s.Prepend(token.Token{Kind: token.Word, Word: "FAKE"})

	got, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, "FAKE", got.Word)

	got, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, "REAL", got.Word)
}

func TestNextWordRejectsInteger(t *testing.T) {
	s := token.NewStream(strings.NewReader("42"))
	_, err := s.NextWord()
	require.ErrorIs(t, err, ferr.ErrInvalidWord)
}

func TestNextLineUntilDelimiter(t *testing.T) {
	s := token.NewStream(strings.NewReader("hello world) rest"))
	got, err := s.NextLineUntil(')')
	require.NoError(t, err)
	require.Equal(t, "hello world", got)

	word, err := s.NextWord()
	require.NoError(t, err)
	require.Equal(t, "REST", word)
}
