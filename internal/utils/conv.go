package utils

import (
	"strconv"
)

// PositiveInt parses s as a positive integer, returning def otherwise.
func PositiveInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return def
	}
	return i
}
