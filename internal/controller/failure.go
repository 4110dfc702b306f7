package controller

import (
	"fmt"
	"strings"

	"github.com/mmcdole/locker/internal/domain"
)

// FailureKind identifies which operation failed
type FailureKind int

const (
	FailureSearch FailureKind = iota + 1
	FailureLoadAll
	FailureSave
	FailureDelete
)

func (k FailureKind) String() string {
	switch k {
	case FailureSearch:
		return "search"
	case FailureLoadAll:
		return "load_all"
	case FailureSave:
		return "save"
	case FailureDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseFailureKind converts a config name ("search", "load_all", "save", "delete")
func ParseFailureKind(s string) (FailureKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "search":
		return FailureSearch, nil
	case "load_all", "loadall", "load-all":
		return FailureLoadAll, nil
	case "save":
		return FailureSave, nil
	case "delete":
		return FailureDelete, nil
	default:
		return 0, fmt.Errorf("unknown failure kind: %q", s)
	}
}

// Failure describes a failed use-case call
type Failure struct {
	Kind  FailureKind
	Query string           // set for FailureSearch
	Item  domain.Thumbnail // set for FailureSave and FailureDelete
	Err   error
}

// Error implements the error interface
func (f Failure) Error() string {
	return f.Kind.String() + ": " + f.Err.Error()
}

// Unwrap exposes the underlying error to errors.Is/As
func (f Failure) Unwrap() error {
	return f.Err
}
