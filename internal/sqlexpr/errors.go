package sqlexpr

import (
	"errors"
	"fmt"

	"github.com/roach88/exprsql/internal/expr"
)

// CompileError reports a node that cannot be rendered.
type CompileError struct {
	// Code identifies the error category.
	Code CompileErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the offending node, if known.
	Node expr.Expr

	// Err is the underlying cause, if any.
	Err error
}

// CompileErrorCode categorizes compile errors.
type CompileErrorCode string

const (
	// ErrCodeUnsupportedConstant indicates a constant sub-expression that
	// cannot be folded.
	ErrCodeUnsupportedConstant CompileErrorCode = "UNSUPPORTED_CONSTANT"

	// ErrCodeUnsupportedNode indicates a node shape with no SQL rendering.
	ErrCodeUnsupportedNode CompileErrorCode = "UNSUPPORTED_NODE"

	// ErrCodeUnsupportedMethod indicates a method with no SQL rendering.
	ErrCodeUnsupportedMethod CompileErrorCode = "UNSUPPORTED_METHOD"

	// ErrCodeInvalidOperand indicates an operand of the wrong kind for
	// its operator, such as a non-boolean literal under AND.
	ErrCodeInvalidOperand CompileErrorCode = "INVALID_OPERAND"
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Node != nil {
		msg += fmt.Sprintf(" (at %s)", expr.String(e.Node))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsUnsupportedConstant returns true if err is a folding failure.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedConstant(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnsupportedConstant
	}
	return false
}

// IsUnsupported returns true if err reports an unsupported node or method.
func IsUnsupported(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnsupportedNode || ce.Code == ErrCodeUnsupportedMethod
	}
	return false
}

// ErrorCode returns the code of a CompileError in err's chain, or "".
func ErrorCode(err error) CompileErrorCode {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// NewUnsupportedConstant wraps a folding failure.
func NewUnsupportedConstant(node expr.Expr, err error) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedConstant,
		Message: "cannot fold constant expression",
		Node:    node,
		Err:     err,
	}
}

// NewUnsupportedNode reports a node with no SQL rendering.
func NewUnsupportedNode(node expr.Expr, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedNode,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// NewUnsupportedMethod reports a method with no SQL rendering.
func NewUnsupportedMethod(node expr.Expr, m expr.Method) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedMethod,
		Message: fmt.Sprintf("method %s has no SQL translation", m),
		Node:    node,
	}
}

// NewInvalidOperand reports an operand of the wrong kind.
func NewInvalidOperand(node expr.Expr, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    ErrCodeInvalidOperand,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}
