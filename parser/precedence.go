package parser

import "github.com/inkwell-tools/inkwell/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= *= /=
	RANGE       // .. ..=
	COND        // || or &&
	EQUALS      // == or !=
	LESSGREATER // > or <
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	SHIFT       // << >>
	SUM         // + or -
	PRODUCT     // * / %
	CAST        // as
	PREFIX      // -X or !X
	CALL        // foo(x), x.y, x[i], x?
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.DOT_DOT:         RANGE,
	token.DOT_DOT_EQ:      RANGE,
	token.AND:             COND,
	token.OR:              COND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.LT:              LESSGREATER,
	token.LT_EQUALS:       LESSGREATER,
	token.GT:              LESSGREATER,
	token.GT_EQUALS:       LESSGREATER,
	token.PIPE:            BITOR,
	token.CARET:           BITXOR,
	token.AMPERSAND:       BITAND,
	token.LT_LT:           SHIFT,
	token.GT_GT:           SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.AS:              CAST,
	token.BANG:            CALL,
	token.LPAREN:          CALL,
	token.LBRACKET:        CALL,
	token.PERIOD:          CALL,
	token.QUESTION:        CALL,
	token.COLON_COLON:     CALL,
}
