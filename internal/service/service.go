package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
