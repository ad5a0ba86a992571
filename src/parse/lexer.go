package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/herrors"
)

type lexer struct {
	filename string
	rdr      *bufio.Reader
	peeked   []*token
	scanErr  error
	LineInfo
}

func newLexer(filename string, src io.Reader) *lexer {
	return &lexer{
		filename: filename,
		LineInfo: LineInfo{Line: 1},
		rdr:      bufio.NewReaderSize(src, 4096),
		peeked:   []*token{},
	}
}

func (lex *lexer) errf(msg string, data ...any) error {
	return lex.err(fmt.Errorf(msg, data...))
}

func (lex *lexer) err(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	return &herrors.Error{
		Filename: lex.filename,
		Kind:     herrors.LexErr,
		Line:     lex.Line,
		Column:   lex.Column,
		Err:      err,
	}
}

func (lex *lexer) peekRune() rune {
	chs, _ := lex.rdr.Peek(1)
	if len(chs) == 0 {
		return 0
	}
	return rune(chs[0])
}

func (lex *lexer) nextRune() (rune, error) {
	ch, _, err := lex.rdr.ReadRune()
	if err != nil {
		return ch, lex.err(err)
	}
	if ch == '\n' || ch == '\r' {
		lex.Line++
		lex.Column = 0
	}
	lex.Column++
	return ch, err
}

func (lex *lexer) skipWhitespace() error {
	for {
		if ch := lex.peekRune(); ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if _, err := lex.nextRune(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (lex *lexer) tokenVal(kind tokenType) (*token, error) {
	return &token{Kind: kind, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(kind))}}, nil
}

func (lex *lexer) takeTokenVal(kind tokenType) (*token, error) {
	if _, err := lex.nextRune(); err != nil {
		return nil, err
	}
	return lex.tokenVal(kind)
}

// allow for FIFO stack.
func (lex *lexer) back(tk *token) {
	lex.peeked = append([]*token{tk}, lex.peeked...)
}

func (lex *lexer) peek() *token {
	if len(lex.peeked) > 0 {
		return lex.peeked[0]
	}
	tk, err := lex.next()
	if err != nil {
		// hold the error so the next call to next surfaces it instead
		// of silently ending the token stream.
		lex.scanErr = err
		return &token{Kind: tokenEOS}
	}
	lex.back(tk)
	return tk
}

func (lex *lexer) next() (*token, error) {
	if lex.scanErr != nil {
		return nil, lex.scanErr
	}
	if len(lex.peeked) > 0 {
		tk := lex.peeked[0]
		lex.peeked = lex.peeked[1:]
		return tk, nil
	}
	if err := lex.skipWhitespace(); err != nil {
		if errors.Is(err, io.EOF) {
			return lex.tokenVal(tokenEOS)
		}
		return nil, err
	}
	ch := lex.peekRune()
	switch {
	case ch == 0:
		return lex.tokenVal(tokenEOS)
	case unicode.IsDigit(ch):
		return lex.parseNumber()
	case unicode.IsLetter(ch) || ch == '_':
		return lex.parseKeyword()
	}

	if _, err := lex.nextRune(); err != nil {
		return nil, err
	}
	switch ch {
	case '+':
		return lex.tokenVal(tokenAdd)
	case '-':
		return lex.tokenVal(tokenMinus)
	case '*':
		return lex.tokenVal(tokenMultiply)
	case '/':
		return lex.tokenVal(tokenDivide)
	case '%':
		return lex.tokenVal(tokenModulo)
	case '^':
		return lex.tokenVal(tokenBitwiseXOr)
	case '~':
		return lex.tokenVal(tokenBitwiseNot)
	case '?':
		return lex.tokenVal(tokenQuestion)
	case ':':
		return lex.tokenVal(tokenColon)
	case '(':
		return lex.tokenVal(tokenOpenParen)
	case ')':
		return lex.tokenVal(tokenCloseParen)
	case '<':
		if lex.peekRune() == '<' {
			return lex.takeTokenVal(tokenShiftLeft)
		} else if lex.peekRune() == '=' {
			return lex.takeTokenVal(tokenLe)
		}
		return lex.tokenVal(tokenLt)
	case '>':
		if lex.peekRune() == '>' {
			return lex.takeTokenVal(tokenShiftRight)
		} else if lex.peekRune() == '=' {
			return lex.takeTokenVal(tokenGe)
		}
		return lex.tokenVal(tokenGt)
	case '=':
		if lex.peekRune() == '=' {
			return lex.takeTokenVal(tokenEq)
		}
		return nil, lex.errf("unexpected character %q, did you mean ==?", string(ch))
	case '!':
		if lex.peekRune() == '=' {
			return lex.takeTokenVal(tokenNe)
		}
		return lex.tokenVal(tokenNot)
	case '&':
		if lex.peekRune() == '&' {
			return lex.takeTokenVal(tokenAnd)
		}
		return lex.tokenVal(tokenBitwiseAnd)
	case '|':
		if lex.peekRune() == '|' {
			return lex.takeTokenVal(tokenOr)
		}
		return lex.tokenVal(tokenBitwiseOr)
	default:
		return nil, lex.errf("unexpected character %q", string(ch))
	}
}

// parseNumber captures the raw literal text, base prefix and any u/l
// suffixes included. Validation happens when the literal node is built, so
// malformed literals degrade to Unknown nodes instead of lex errors.
func (lex *lexer) parseNumber() (*token, error) {
	linfo := LineInfo{Line: lex.Line, Column: lex.Column + 1}
	var text strings.Builder
	for {
		ch := lex.peekRune()
		if !unicode.IsDigit(ch) && !unicode.IsLetter(ch) {
			break
		}
		if _, err := lex.nextRune(); err != nil {
			return nil, err
		}
		text.WriteRune(ch)
	}
	return &token{Kind: tokenInteger, Text: text.String(), LineInfo: linfo}, nil
}

func (lex *lexer) parseKeyword() (*token, error) {
	linfo := LineInfo{Line: lex.Line, Column: lex.Column + 1}
	var ident strings.Builder
	for {
		ch := lex.peekRune()
		if !unicode.IsDigit(ch) && !unicode.IsLetter(ch) && ch != '_' {
			break
		}
		if _, err := lex.nextRune(); err != nil {
			return nil, err
		}
		ident.WriteRune(ch)
	}
	if kw, ok := keywords[ident.String()]; ok {
		return &token{Kind: kw, LineInfo: linfo}, nil
	}
	return nil, lex.errf("unexpected identifier %q in constant expression", ident.String())
}
