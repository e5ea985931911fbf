package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrailingSegment returns the last "/"-separated segment of an identifier
// such as "uk.org.publicwhip/member/42".
func TrailingSegment(id string) string {
	id = strings.TrimSpace(id)
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

func ParseTrailingInt(id string) (int, error) {
	segment := TrailingSegment(id)
	if segment == "" {
		return 0, fmt.Errorf("empty identifier %q", id)
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("identifier %q: %w", id, err)
	}
	return n, nil
}

func StringPtr(v string) *string {
	return &v
}

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
