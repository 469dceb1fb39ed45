package container

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrCircularDependency is matched by every *CircularDependencyError.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrFactoryPanic wraps a panic recovered from a factory.
	ErrFactoryPanic = errors.New("container: panic in factory")

	// ErrSelfAlias is returned when a name is aliased to itself.
	ErrSelfAlias = errors.New("container: name aliased to itself")

	// ErrNotFunc is returned by FuncFactory when given something that is not a function.
	ErrNotFunc = errors.New("container: value is not a function")
)

const defaultConflictMessage = "Cannot have two items with the same name."

// DuplicateNameError is returned by Register when the name is already taken.
// Error() returns the caller-supplied message verbatim.
type DuplicateNameError struct {
	Name    string
	Message string
}

func (e *DuplicateNameError) Error() string {
	if e.Message == "" {
		return defaultConflictMessage
	}
	return e.Message
}

// MissingDependencyError is returned in strict mode when a dependency name
// is blank or not registered.
type MissingDependencyError struct {
	Consumer string
	Name     string
}

func (e *MissingDependencyError) Error() string {
	msg := "container: dependency " + strconv.Quote(e.Name) + " is not registered"
	if e.Consumer != "" {
		msg += " (required by " + strconv.Quote(e.Consumer) + ")"
	}
	return msg
}

// CircularDependencyError reports a dependency cycle. Path starts and ends
// with the entity that was revisited, e.g. [p q p].
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Path, " -> ")
}

// Is makes errors.Is(err, ErrCircularDependency) work.
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// NotFoundError is returned when a name is looked up by Make/Get and is not registered.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string {
	return "container: no entity registered for " + strconv.Quote(e.Name)
}

// WrongTypeError is returned by Get when the resolved value is not of the requested type.
type WrongTypeError struct {
	Name string
	Want string
	Got  string
}

func (e *WrongTypeError) Error() string {
	return "container: " + strconv.Quote(e.Name) + " resolved to " + e.Got + ", want " + e.Want
}

// ArityError is returned by a FuncFactory when the number of declared
// dependencies does not match the function's parameter count.
type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return "container: " + strconv.Quote(e.Name) + " takes " + strconv.Itoa(e.Want) +
		" arguments, got " + strconv.Itoa(e.Got)
}
