// Package token turns a character stream into the Token values the
// tokenizer-driving outer loop consumes: integer literals and words.
// Grounded on original_source/src/io/tokens.rs's char-driven TokenStream
// (the newer of the two tokenizer revisions in the original source — see
// DESIGN.md), built atop the teacher's internal/runeio.Reader.
package token

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
	"github.com/thirdlang/thirdvm/internal/runeio"
)

// Kind distinguishes an integer literal from a word.
type Kind int

const (
	Word Kind = iota
	Integer
)

// Token is either a parsed Number or an upper-cased word.
type Token struct {
	Kind   Kind
	Word   string
	Number memory.Number
}

// Tokenize classifies a whitespace-delimited string per tokens.rs's
// Token::tokenize: hex (0x), binary (0b), and decimal literals are
// recognized before falling back to a word, upper-cased.
func Tokenize(s string) Token {
	if n, ok := parseNumber(s); ok {
		return Token{Kind: Integer, Number: n}
	}
	return Token{Kind: Word, Word: strings.ToUpper(s)}
}

func parseNumber(s string) (memory.Number, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		if n, err := strconv.ParseInt(rest, 16, 64); err == nil {
			return memory.Number(n), true
		}
		return 0, false
	}
	if rest, ok := strings.CutPrefix(s, "0b"); ok {
		if n, err := strconv.ParseInt(rest, 2, 64); err == nil {
			return memory.Number(n), true
		}
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return memory.Number(n), true
	}
	return 0, false
}

// Stream pulls Tokens off a rune source on demand, with a pushback stack of
// tokens (filled by Prepend) that Next drains before reading the source.
type Stream struct {
	r       runeio.Reader
	pending rune
	hasPend bool
	pushed  []Token
}

// NewStream wraps r for tokenization.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: runeio.NewReader(r)}
}

// Prepend re-queues a token to be returned by the next Next call, ahead of
// the underlying stream; the most recently prepended token comes first.
func (s *Stream) Prepend(t Token) {
	s.pushed = append(s.pushed, t)
}

func (s *Stream) readRune() (rune, error) {
	if s.hasPend {
		s.hasPend = false
		return s.pending, nil
	}
	r, _, err := s.r.ReadRune()
	return r, err
}

func (s *Stream) unreadRune(r rune) {
	s.pending = r
	s.hasPend = true
}

// NextChar returns the next raw rune, unbuffered by word-splitting, as
// used by CHAR/KEY-style word reading of a single following character.
func (s *Stream) NextChar() (rune, error) {
	r, err := s.readRune()
	if err != nil {
		return 0, ferr.ErrNoMoreTokens
	}
	return r, nil
}

// Next returns the next whitespace-delimited token, classified by
// Tokenize, or ErrNoMoreTokens at end of input.
func (s *Stream) Next() (Token, error) {
	if n := len(s.pushed); n > 0 {
		t := s.pushed[n-1]
		s.pushed = s.pushed[:n-1]
		return t, nil
	}

	var b strings.Builder
	started := false
	for {
		r, err := s.readRune()
		if err != nil {
			if started {
				return Tokenize(b.String()), nil
			}
			return Token{}, ferr.ErrNoMoreTokens
		}
		if unicode.IsSpace(r) {
			if started {
				return Tokenize(b.String()), nil
			}
			continue
		}
		started = true
		b.WriteRune(r)
	}
}

// NextWord returns the next token, requiring it to be a Word (not an
// integer literal), per tokens.rs's next_word.
func (s *Stream) NextWord() (string, error) {
	t, err := s.Next()
	if err != nil {
		return "", err
	}
	if t.Kind != Word {
		return "", ferr.ErrInvalidWord
	}
	return t.Word, nil
}

// NextLineUntil reads raw runes up to (and consuming) the first occurrence
// of delim, returning everything before it. Used by the ( and \ comment
// words.
func (s *Stream) NextLineUntil(delim rune) (string, error) {
	var b strings.Builder
	for {
		r, err := s.readRune()
		if err != nil {
			return b.String(), nil
		}
		if r == delim {
			return b.String(), nil
		}
		b.WriteRune(r)
	}
}
