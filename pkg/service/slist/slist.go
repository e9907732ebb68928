package slist

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	ErrNoListFound = sql.ErrNoRows
	ErrEmptyTitle  = errors.New("list title cannot be empty")
)

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
