package stask

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/the-dev-tools/todolist/pkg/service/slist"
)

var (
	ErrNoTaskFound = sql.ErrNoRows
	ErrNoListFound = slist.ErrNoListFound
	ErrEmptyTitle  = errors.New("task title cannot be empty")
	// ErrPartialDelete reports that a task row is gone but the positions of
	// its former siblings could not be closed up.
	ErrPartialDelete = errors.New("task deleted but list order not reconciled")
)

// DeletePolicy selects how a task delete and the gap-closing shift that
// follows it are committed.
type DeletePolicy string

const (
	// DeletePolicyAtomic commits the delete and the shift together.
	DeletePolicyAtomic DeletePolicy = "atomic"
	// DeletePolicySoft commits the delete first and reports a failed shift
	// as ErrPartialDelete instead of undoing the delete.
	DeletePolicySoft DeletePolicy = "soft"
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeletePolicyAtomic, DeletePolicySoft:
		return p, nil
	case "":
		return DeletePolicyAtomic, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
