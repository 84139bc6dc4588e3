package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

func translate(err error) error {
	if err == nil {
		return nil
	}
	if isDupKey(err) {
		return ErrDuplicate
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without TranslateError report it only in the message
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// likePattern builds a case-insensitive contains pattern with "!" as the escape char.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
