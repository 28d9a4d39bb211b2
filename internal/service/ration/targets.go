package ration

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseTarget extracts the lower bound of a requirement string such as
// "20–22%" or "2900–3000 kcal/kg". Unparseable input yields 0.
func ParseTarget(value string) float64 {
	value = strings.TrimSpace(value)
	start := strings.IndexFunc(value, unicode.IsDigit)
	if start < 0 {
		return 0
	}

	end := start
	for end < len(value) && (value[end] == '.' || (value[end] >= '0' && value[end] <= '9')) {
		end++
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(value[start:end], "."), 64)
	if err != nil {
		return 0
	}
	return n
}
