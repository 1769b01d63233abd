package dto

import (
	"strings"
	"time"

	"attendance_backend/internals/features/roster/notes/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	StudentNoteCategory string `json:"student_note_category" validate:"omitempty,oneof=holiday discipline health achievement general"`
	StudentNoteTitle    string `json:"student_note_title" validate:"required,max=100"`
	StudentNoteBody     string `json:"student_note_body" validate:"required"`
	StudentNoteDate     string `json:"student_note_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateNoteRequest) Normalize() {
	r.StudentNoteCategory = strings.ToLower(strings.TrimSpace(r.StudentNoteCategory))
	r.StudentNoteTitle = strings.TrimSpace(r.StudentNoteTitle)
	r.StudentNoteBody = strings.TrimSpace(r.StudentNoteBody)
	r.StudentNoteDate = strings.TrimSpace(r.StudentNoteDate)
}

type UpdateNoteRequest struct {
	StudentNoteCategory *string `json:"student_note_category" validate:"omitnil,oneof=holiday discipline health achievement general"`
	StudentNoteTitle    *string `json:"student_note_title" validate:"omitnil,min=1,max=100"`
	StudentNoteBody     *string `json:"student_note_body"`
	StudentNoteDate     *string `json:"student_note_date" validate:"omitnil,datetime=2006-01-02"`
}

func (r *UpdateNoteRequest) Normalize() {
	if r.StudentNoteCategory != nil {
		v := strings.ToLower(strings.TrimSpace(*r.StudentNoteCategory))
		r.StudentNoteCategory = &v
	}
	for _, p := range []*string{r.StudentNoteTitle, r.StudentNoteBody, r.StudentNoteDate} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

type NoteResponse struct {
	StudentNoteID        uuid.UUID          `json:"student_note_id"`
	StudentNoteStudentID uuid.UUID          `json:"student_note_student_id"`
	StudentNoteAuthorID  *uuid.UUID         `json:"student_note_author_id,omitempty"`
	AuthorName           string             `json:"author_name,omitempty"`
	StudentNoteCategory  model.NoteCategory `json:"student_note_category"`
	StudentNoteTitle     string             `json:"student_note_title"`
	StudentNoteBody      string             `json:"student_note_body"`
	StudentNoteDate      string             `json:"student_note_date"`
	StudentNoteCreatedAt time.Time          `json:"student_note_created_at"`
	StudentNoteUpdatedAt time.Time          `json:"student_note_updated_at"`
}

func ToNoteResponse(m model.StudentNoteModel, authorName string) NoteResponse {
	return NoteResponse{
		StudentNoteID:        m.StudentNoteID,
		StudentNoteStudentID: m.StudentNoteStudentID,
		StudentNoteAuthorID:  m.StudentNoteAuthorID,
		AuthorName:           authorName,
		StudentNoteCategory:  m.StudentNoteCategory,
		StudentNoteTitle:     m.StudentNoteTitle,
		StudentNoteBody:      m.StudentNoteBody,
		StudentNoteDate:      dbtime.FormatDate(m.StudentNoteDate),
		StudentNoteCreatedAt: m.StudentNoteCreatedAt,
		StudentNoteUpdatedAt: m.StudentNoteUpdatedAt,
	}
}
