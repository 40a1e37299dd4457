package parser

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	// ErrMismatchedToken: the expected terminal differs from the actual one.
	ErrMismatchedToken ErrorKind = iota
	// ErrNoViableAlternative: no alternative of a decision starts with the
	// lookahead.
	ErrNoViableAlternative
	// ErrExtraneousInput: tokens remain after the entry rule completed.
	ErrExtraneousInput
	// ErrStructural: the parse cannot continue and was aborted.
	ErrStructural
)

var errorKindNames = map[ErrorKind]string{
	ErrMismatchedToken:     "mismatched token",
	ErrNoViableAlternative: "no viable alternative",
	ErrExtraneousInput:     "extraneous input",
	ErrStructural:          "structural failure",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// SyntaxError describes one parse failure: the rule in progress, the
// offending token and the tokens that would have been accepted.
type SyntaxError struct {
	Kind      ErrorKind
	Rule      Rule
	Got       Token
	Expected  []TokenKind
	Message   string
	Recovered bool
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Got.Span.Start.String())
	sb.WriteString(": ")
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Kind.String())
	}
	fmt.Fprintf(&sb, " in %s, got %s", e.Rule, e.Got)
	return sb.String()
}

// Is matches a SyntaxError against one of the Err* sentinels by kind.
func (e *SyntaxError) Is(target error) bool {
	var k kindError
	if errors.As(target, &k) {
		return e.Kind == ErrorKind(k)
	}
	return false
}

type kindError ErrorKind

func (k kindError) Error() string {
	return ErrorKind(k).String()
}

// Sentinels usable with errors.Is on a *SyntaxError or an ErrorList.
var (
	ErrMismatch   error = kindError(ErrMismatchedToken)
	ErrNoViable   error = kindError(ErrNoViableAlternative)
	ErrExtraneous error = kindError(ErrExtraneousInput)
	ErrAborted    error = kindError(ErrStructural)
)

// ErrorList is the error returned by the parse entry points.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// ErrorListener is the sink errors are reported to as they occur.
type ErrorListener interface {
	SyntaxError(err *SyntaxError)
}

type ErrorListenerFunc func(err *SyntaxError)

func (f ErrorListenerFunc) SyntaxError(err *SyntaxError) {
	f(err)
}

// Recovery is an error strategy's answer to a mismatched terminal.
type Recovery int

const (
	// RecoverNone abandons the current rule.
	RecoverNone Recovery = iota
	// RecoverDelete skips the current token; the one after it is expected.
	RecoverDelete
	// RecoverInsert pretends the expected token was present.
	RecoverInsert
)

// ErrorStrategy is the policy applied when a match fails.
type ErrorStrategy interface {
	// Recover decides how to resynchronize after the current token failed
	// to match expected. follow holds the tokens that may come right after
	// expected.
	Recover(la Lookahead, expected TokenKind, follow TokenSet) Recovery
	// Fatal reports whether err aborts the whole parse.
	Fatal(err *SyntaxError) bool
}

// DefaultStrategy recovers with single-token deletion or insertion where
// the lookahead allows it and aborts only on structural failures.
type DefaultStrategy struct{}

func (DefaultStrategy) Recover(la Lookahead, expected TokenKind, follow TokenSet) Recovery {
	if la.LA(1) == TokenEOF {
		return RecoverNone
	}
	if la.LA(2) == expected {
		return RecoverDelete
	}
	if follow.Has(la.LA(1)) {
		return RecoverInsert
	}
	return RecoverNone
}

func (DefaultStrategy) Fatal(err *SyntaxError) bool {
	return err.Kind == ErrStructural
}

// BailStrategy never recovers: the first error aborts the parse.
type BailStrategy struct{}

func (BailStrategy) Recover(Lookahead, TokenKind, TokenSet) Recovery {
	return RecoverNone
}

func (BailStrategy) Fatal(*SyntaxError) bool {
	return true
}
