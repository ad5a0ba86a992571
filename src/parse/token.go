package parse

import "fmt"

type (
	tokenType string
	// LineInfo is the position of a token in the source.
	LineInfo struct {
		Line   int64
		Column int64
	}
	token struct {
		LineInfo
		Kind tokenType
		Text string // raw literal text, suffixes included
	}
)

const (
	tokenAdd        tokenType = "+"
	tokenMinus      tokenType = "-"
	tokenMultiply   tokenType = "*"
	tokenDivide     tokenType = "/"
	tokenModulo     tokenType = "%"
	tokenBitwiseOr  tokenType = "|"
	tokenBitwiseXOr tokenType = "^"
	tokenBitwiseAnd tokenType = "&"
	tokenBitwiseNot tokenType = "~"
	tokenNot        tokenType = "!"
	tokenShiftLeft  tokenType = "<<"
	tokenShiftRight tokenType = ">>"
	tokenLt         tokenType = "<"
	tokenGt         tokenType = ">"
	tokenLe         tokenType = "<="
	tokenGe         tokenType = ">="
	tokenEq         tokenType = "=="
	tokenNe         tokenType = "!="
	tokenAnd        tokenType = "&&"
	tokenOr         tokenType = "||"
	tokenQuestion   tokenType = "?"
	tokenColon      tokenType = ":"
	tokenOpenParen  tokenType = "("
	tokenCloseParen tokenType = ")"
	tokenTrue       tokenType = "true"
	tokenFalse      tokenType = "false"
	tokenInteger    tokenType = "integer"
	tokenEOS        tokenType = "<EOS>"
)

// left binding priority for binary ops, C precedence. The ternary operator
// binds lower than all of these and is handled separately.
var binaryPriority = map[tokenType]int{
	tokenOr:         1,
	tokenAnd:        2,
	tokenBitwiseOr:  3,
	tokenBitwiseXOr: 4,
	tokenBitwiseAnd: 5,
	tokenEq:         6,
	tokenNe:         6,
	tokenLt:         7,
	tokenGt:         7,
	tokenLe:         7,
	tokenGe:         7,
	tokenShiftLeft:  8,
	tokenShiftRight: 8,
	tokenAdd:        9,
	tokenMinus:      9,
	tokenMultiply:   10,
	tokenDivide:     10,
	tokenModulo:     10,
}

var keywords = map[string]tokenType{
	string(tokenTrue):  tokenTrue,
	string(tokenFalse): tokenFalse,
}

func (tk *token) String() string {
	if tk.Kind == tokenInteger {
		return fmt.Sprintf("i%v", tk.Text)
	}
	return string(tk.Kind)
}

func (tk *token) isUnary() bool {
	switch tk.Kind {
	case tokenAdd, tokenMinus, tokenNot, tokenBitwiseNot:
		return true
	default:
		return false
	}
}
