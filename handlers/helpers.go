package handlers

import "strconv"

// atoiOr parses s as an int, falling back to def.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
