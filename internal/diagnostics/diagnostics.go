// Package diagnostics defines the error records produced by every compiler
// phase. Each error carries a stable code, the offending lexed token (for
// its byte span) and, for parser errors, the recursive-descent depth at
// which it was recorded.
package diagnostics

import (
	"fmt"

	"github.com/kthxbye/lolc/internal/token"
)

type ErrorCode string

const (
	// Lexical errors
	ErrL001 ErrorCode = "L001" // illegal token in source

	// Parse errors
	ErrP001 ErrorCode = "P001" // malformed program header
	ErrP002 ErrorCode = "P002" // statement-level failure
	ErrP003 ErrorCode = "P003" // expression-level failure
	ErrP004 ErrorCode = "P004" // missing statement terminator

	// Codegen errors
	ErrC001 ErrorCode = "C001" // undeclared identifier
	ErrC002 ErrorCode = "C002" // type mismatch
	ErrC003 ErrorCode = "C003" // invalid cast

	// Serialization errors
	ErrS001 ErrorCode = "S001" // output write failure
)

// Error is a single diagnostic. Level is zero for everything except parser
// errors, where it records the production depth used by the post-parse
// filter.
type Error struct {
	Code    ErrorCode
	Message string
	File    string
	Token   token.LexedToken
	Level   int
}

func NewError(code ErrorCode, tok token.LexedToken, message string) *Error {
	return &Error{Code: code, Token: tok, Message: message}
}

// Error renders the diagnostic as path:start..end: message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d..%d: %s", e.File, e.Token.Start, e.Token.End, e.Message)
}
