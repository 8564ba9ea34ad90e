package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 位无连字符 UUID，用作用户主键
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
