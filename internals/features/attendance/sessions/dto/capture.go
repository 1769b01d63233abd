package dto

import (
	"strings"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
)

// MarkInput is one entry of the nested "marks" object.
type MarkInput struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
	Note   string `json:"note"`
}

const (
	statusPrefix = "status_"
	notePrefix   = "note_"
	remarkPrefix = "remark_"
)

// ParseMarks merges the nested marks object with flat status_<id>/note_<id>
// fields into a typed map. Keys whose id is not a uuid are skipped. Statuses
// are only normalised here; the service validates them for enrolled students.
func ParseMarks(nested map[string]MarkInput, flat map[string]string) map[uuid.UUID]sessionModel.Mark {
	marks := map[uuid.UUID]sessionModel.Mark{}

	set := func(id uuid.UUID, status, remark *string) {
		m := marks[id]
		if status != nil {
			m.Status = sessionModel.AttendanceStatus(strings.ToLower(strings.TrimSpace(*status)))
		}
		if remark != nil {
			m.Remark = strings.TrimSpace(*remark)
		}
		marks[id] = m
	}

	for rawID, in := range nested {
		id, err := uuid.Parse(strings.TrimSpace(rawID))
		if err != nil {
			continue
		}
		status := in.Status
		remark := in.Remark
		if remark == "" {
			remark = in.Note
		}
		set(id, &status, &remark)
	}

	for key, val := range flat {
		v := val
		switch {
		case strings.HasPrefix(key, statusPrefix):
			if id, err := uuid.Parse(strings.TrimPrefix(key, statusPrefix)); err == nil {
				set(id, &v, nil)
			}
		case strings.HasPrefix(key, notePrefix):
			if id, err := uuid.Parse(strings.TrimPrefix(key, notePrefix)); err == nil {
				set(id, nil, &v)
			}
		case strings.HasPrefix(key, remarkPrefix):
			if id, err := uuid.Parse(strings.TrimPrefix(key, remarkPrefix)); err == nil {
				set(id, nil, &v)
			}
		}
	}

	return marks
}

// FlatFields keeps only the string values whose key is a per-student field.
func FlatFields(body map[string]any) map[string]string {
	out := map[string]string{}
	for k, v := range body {
		if !strings.HasPrefix(k, statusPrefix) && !strings.HasPrefix(k, notePrefix) && !strings.HasPrefix(k, remarkPrefix) {
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
