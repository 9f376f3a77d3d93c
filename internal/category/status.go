// AngelaMos | 2026
// status.go

package category

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

// Status is a loosely typed on/off flag. Clients send it as a boolean,
// 0/1, or a string such as "true" or "on". Null and absence both leave
// it unset.
type Status struct {
	Valid bool
	Value bool
}

func (s *Status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = Status{}
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return statusError()
	}

	switch v := raw.(type) {
	case bool:
		*s = Status{Valid: true, Value: v}
	case float64:
		switch v {
		case 0:
			*s = Status{Valid: true, Value: false}
		case 1:
			*s = Status{Valid: true, Value: true}
		default:
			return statusError()
		}
	case string:
		parsed, ok := parseStatusString(v)
		if !ok {
			return statusError()
		}
		*s = parsed
	default:
		return statusError()
	}

	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s Status) Ptr() *bool {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

func parseStatusString(v string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return Status{}, true
	case "1", "true", "on", "yes", "active":
		return Status{Valid: true, Value: true}, true
	case "0", "false", "off", "no", "inactive":
		return Status{Valid: true, Value: false}, true
	default:
		return Status{}, false
	}
}

func statusError() error {
	return &core.FieldDecodeError{
		Field:   "status",
		Message: "The status field must be true or false.",
	}
}
