package entmap

import (
	"fmt"
)

// GrammarError reports text that does not match the expected grammar.
type GrammarError struct {
	Msg string
	Pos Position
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("entmap: %s at %s", e.Msg, e.Pos)
}

func grammarErrf(pos Position, format string, args ...any) *GrammarError {
	return &GrammarError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// MissingDefinitionError reports an entity without its mandatory
// entityDef block.
type MissingDefinitionError struct {
	Pos Position
}

func (e *MissingDefinitionError) Error() string {
	return fmt.Sprintf("entmap: entity has no entityDef block (entity at %s)", e.Pos)
}

// DuplicateDefNameError reports two entities in one document resolving
// to the same def name. Def names must be unique within a document.
type DuplicateDefNameError struct {
	DefName string
}

func (e *DuplicateDefNameError) Error() string {
	return fmt.Sprintf("entmap: duplicate entityDef name %q", e.DefName)
}

// FragmentError wraps a parse failure with the index of the entity
// fragment it occurred in, counted in document order.
type FragmentError struct {
	Index int
	Err   error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("entmap: entity fragment %d: %v", e.Index, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}
