package lexer

import (
	"strconv"
	"strings"

	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/errors"
)

// ParseIntLiteral decodes the raw text of an INT token into a magnitude and
// sign. Base prefixes 0b/0o/0x select base 2/8/16; underscores are digit
// separators with no semantics.
func ParseIntLiteral(raw string, pos *ast.Pos) (magnitude uint64, negative bool, err error) {
	text := raw
	if strings.HasPrefix(text, "-") {
		negative = true
		text = text[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		base = 2
		text = text[2:]
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		base = 8
		text = text[2:]
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base = 16
		text = text[2:]
	}

	digits := strings.ReplaceAll(text, "_", "")
	if digits == "" {
		return 0, false, errors.New(errors.LEX006, "lexer", "number literal has no digits", pos)
	}

	magnitude, perr := strconv.ParseUint(digits, base, 64)
	if perr != nil {
		if numErr, ok := perr.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, false, errors.New(errors.LEX007, "lexer",
				"integer literal "+raw+" overflows its syntactic representation", pos)
		}
		return 0, false, errors.New(errors.LEX006, "lexer",
			"malformed number literal "+raw, pos)
	}
	return magnitude, negative, nil
}

// ParseFloatLiteral decodes the raw text of a FLOAT token
func ParseFloatLiteral(raw string, pos *ast.Pos) (float64, error) {
	digits := strings.ReplaceAll(raw, "_", "")
	v, perr := strconv.ParseFloat(digits, 64)
	if perr != nil {
		return 0, errors.New(errors.LEX006, "lexer", "malformed number literal "+raw, pos)
	}
	return v, nil
}
