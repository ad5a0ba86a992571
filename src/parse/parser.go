// Package parse turns constant-expression source text into evaluated
// expression trees. The parser builds nodes bottom-up, so every subtree has
// its kind and value the moment it is constructed.
package parse

import (
	"fmt"
	"io"

	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/expr"
	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/herrors"
)

type parser struct {
	lex *lexer
}

// Parse consumes src entirely and returns the evaluated constant expression.
func Parse(filename string, src io.Reader) (*expr.Expression, error) {
	p := &parser{lex: newLexer(filename, src)}
	ex, err := p.expression()
	if err != nil {
		return nil, err
	}
	tk, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tk.Kind != tokenEOS {
		return nil, p.errf(tk, "unexpected %v after expression", tk)
	}
	return ex, nil
}

func (p *parser) errf(tk *token, msg string, data ...any) error {
	return &herrors.Error{
		Filename: p.lex.filename,
		Kind:     herrors.ParseErr,
		Line:     tk.Line,
		Column:   tk.Column,
		Err:      fmt.Errorf(msg, data...),
	}
}

// expression parses a full expression, the ternary operator included. The
// ternary binds lowest and associates to the right.
func (p *parser) expression() (*expr.Expression, error) {
	cond, err := p.binaryExpression(0)
	if err != nil {
		return nil, err
	}
	if p.lex.peek().Kind != tokenQuestion {
		return cond, nil
	}
	if _, err := p.lex.next(); err != nil {
		return nil, err
	}
	trueVal, err := p.expression()
	if err != nil {
		return nil, err
	}
	colon, err := p.lex.next()
	if err != nil {
		return nil, err
	} else if colon.Kind != tokenColon {
		return nil, p.errf(colon, "expected : in ternary expression but found %v", colon)
	}
	falseVal, err := p.expression()
	if err != nil {
		return nil, err
	}
	return expr.NewTernary(cond, trueVal, falseVal), nil
}

// binaryExpression parses binary operators with precedence climbing; all
// binary operators associate to the left.
func (p *parser) binaryExpression(limit int) (*expr.Expression, error) {
	left, err := p.unaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		tk := p.lex.peek()
		priority, ok := binaryPriority[tk.Kind]
		if !ok || priority <= limit {
			return left, nil
		}
		if _, err := p.lex.next(); err != nil {
			return nil, err
		}
		right, err := p.binaryExpression(priority)
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(left, string(tk.Kind), right)
	}
}

func (p *parser) unaryExpression() (*expr.Expression, error) {
	tk, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tk.isUnary():
		val, err := p.unaryExpression()
		if err != nil {
			return nil, err
		}
		return expr.NewUnary(string(tk.Kind), val), nil
	case tk.Kind == tokenOpenParen:
		ex, err := p.expression()
		if err != nil {
			return nil, err
		}
		closing, err := p.lex.next()
		if err != nil {
			return nil, err
		} else if closing.Kind != tokenCloseParen {
			return nil, p.errf(closing, "expected ) but found %v", closing)
		}
		return ex, nil
	case tk.Kind == tokenInteger:
		return expr.NewLiteral(tk.Text), nil
	case tk.Kind == tokenTrue:
		return expr.NewBool(true), nil
	case tk.Kind == tokenFalse:
		return expr.NewBool(false), nil
	default:
		return nil, p.errf(tk, "unexpected %v at start of expression", tk)
	}
}
