package export

import (
	"fmt"
	"strconv"
	"strings"
)

func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(value)
}

func normalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func quote(s string) string {
	return strconv.Quote(s)
}
