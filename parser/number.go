package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber reads the signed value out of a Decimal (#123, #-5) or Hex
// (x3000, xFFFF) token. Hex digits are parsed as an unsigned value (xFFFF is
// 65535, not -1); a '-' right after the x (x-5) negates it.
func ParseNumber(tok Token) (int64, error) {
	switch tok.Kind {
	case TokenDecimal:
		s := strings.TrimPrefix(tok.Lexeme, "#")
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal immediate %q", tok.Lexeme)
		}
		return v, nil

	case TokenHex:
		s := tok.Lexeme[1:] // strip leading x/X
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		}
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex immediate %q", tok.Lexeme)
		}
		if neg {
			return -int64(v), nil
		}
		return int64(v), nil

	default:
		return 0, fmt.Errorf("%q is not a numeric token", tok.Lexeme)
	}
}

func errInvalidOperand(directive string) error {
	return fmt.Errorf("invalid operand for %s", directive)
}

func errUnknownDirective(name string) error {
	return fmt.Errorf("unknown directive %s", name)
}
