package archival

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of an archival record.
type Status string

const (
	StatusDraft    Status = "BORRADOR"
	StatusFinal    Status = "FINALIZADO"
	StatusApproved Status = "APROBADO"
)

// ParseStatus accepts the stored names case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusFinal:
		return StatusFinal, nil
	case StatusApproved:
		return StatusApproved, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

func (s Status) String() string {
	return string(s)
}
