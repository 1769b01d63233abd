package model

import (
	"time"

	studentModel "attendance_backend/internals/features/roster/students/model"
	userModel "attendance_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteCategory string

const (
	NoteHoliday     NoteCategory = "holiday"
	NoteDiscipline  NoteCategory = "discipline"
	NoteHealth      NoteCategory = "health"
	NoteAchievement NoteCategory = "achievement"
	NoteGeneral     NoteCategory = "general"
)

var NoteCategories = []NoteCategory{NoteHoliday, NoteDiscipline, NoteHealth, NoteAchievement, NoteGeneral}

func (c NoteCategory) Valid() bool {
	for _, x := range NoteCategories {
		if c == x {
			return true
		}
	}
	return false
}

type StudentNoteModel struct {
	StudentNoteID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_note_id" json:"student_note_id"`
	StudentNoteStudentID uuid.UUID  `gorm:"type:uuid;not null;index:idx_student_notes_student_date,priority:1;column:student_note_student_id" json:"student_note_student_id"`
	StudentNoteAuthorID  *uuid.UUID `gorm:"type:uuid;column:student_note_author_id" json:"student_note_author_id,omitempty"`

	StudentNoteCategory NoteCategory   `gorm:"type:varchar(20);not null;default:'general';column:student_note_category" json:"student_note_category"`
	StudentNoteTitle    string         `gorm:"size:100;not null;column:student_note_title" json:"student_note_title"`
	StudentNoteBody     string         `gorm:"type:text;not null;column:student_note_body" json:"student_note_body"`
	StudentNoteDate     datatypes.Date `gorm:"not null;index:idx_student_notes_student_date,priority:2;column:student_note_date" json:"student_note_date"`

	StudentNoteCreatedAt time.Time `gorm:"column:student_note_created_at;autoCreateTime" json:"student_note_created_at"`
	StudentNoteUpdatedAt time.Time `gorm:"column:student_note_updated_at;autoUpdateTime" json:"student_note_updated_at"`

	Student *studentModel.StudentModel `gorm:"foreignKey:StudentNoteStudentID;references:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Author  *userModel.UserModel       `gorm:"foreignKey:StudentNoteAuthorID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

func (StudentNoteModel) TableName() string {
	return "student_notes"
}

func (m *StudentNoteModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentNoteID == uuid.Nil {
		m.StudentNoteID = uuid.New()
	}
	if m.StudentNoteCategory == "" {
		m.StudentNoteCategory = NoteGeneral
	}
	return nil
}
