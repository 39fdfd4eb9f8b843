package irc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what stopped the parser. It is NoError for a parser
// that is parsing normally and exactly one of the other kinds once the
// parser has entered its error state.
type ErrorKind uint8

const (
	// NoError means the parser is not in an error state.
	NoError ErrorKind = iota
	// ParseError means the input violated the message grammar.
	ParseError
	// LengthError means a message exceeded the raw length ceiling.
	LengthError
	// UserError means a bound callback aborted the parse.
	UserError
)

var errorKindNames = [...]string{
	NoError:     "none",
	ParseError:  "parse error",
	LengthError: "length exceeded",
	UserError:   "callback abort",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Sentinel errors returned by Err, one per ErrorKind. Callers classify with
// errors.Is; a UserError additionally wraps the error the callback returned.
var (
	ErrParse  = errors.New("irc: invalid message syntax")
	ErrLength = errors.New("irc: message exceeds maximum length")
	ErrUser   = errors.New("irc: aborted by callback")
)

// Err converts an ErrorKind to its sentinel error, nil for NoError.
func (k ErrorKind) Err() error {
	switch k {
	case ParseError:
		return ErrParse
	case LengthError:
		return ErrLength
	case UserError:
		return ErrUser
	}
	return nil
}
