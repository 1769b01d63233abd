package model

import (
	"strings"
	"time"

	classModel "attendance_backend/internals/features/roster/classes/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type StudentModel struct {
	StudentID      uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentClassID uuid.UUID `gorm:"type:uuid;not null;index:idx_students_class_active,priority:1;column:student_class_id" json:"student_class_id"`

	StudentFirstName  string          `gorm:"size:50;not null;column:student_first_name" json:"student_first_name"`
	StudentLastName   string          `gorm:"size:50;not null;column:student_last_name" json:"student_last_name"`
	StudentNationalID string          `gorm:"size:11;not null;uniqueIndex:uq_students_national_id;column:student_national_id" json:"student_national_id"`
	StudentBirthDate  *datatypes.Date `gorm:"column:student_birth_date" json:"student_birth_date,omitempty"`
	StudentGender     Gender          `gorm:"type:varchar(1);column:student_gender" json:"student_gender,omitempty"`

	StudentGuardianName  string `gorm:"size:100;column:student_guardian_name" json:"student_guardian_name,omitempty"`
	StudentGuardianPhone string `gorm:"size:15;column:student_guardian_phone" json:"student_guardian_phone,omitempty"`
	StudentGuardianEmail string `gorm:"size:255;column:student_guardian_email" json:"student_guardian_email,omitempty"`
	StudentAddress       string `gorm:"type:text;column:student_address" json:"student_address,omitempty"`

	StudentIsActive bool `gorm:"not null;index:idx_students_class_active,priority:2;column:student_is_active" json:"student_is_active"`

	StudentEnrolledAt time.Time `gorm:"column:student_enrolled_at;autoCreateTime" json:"student_enrolled_at"`
	StudentUpdatedAt  time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`

	Class *classModel.ClassModel `gorm:"foreignKey:StudentClassID;references:ClassID;constraint:OnDelete:CASCADE" json:"-"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}

func (m StudentModel) FullName() string {
	return strings.TrimSpace(m.StudentFirstName + " " + m.StudentLastName)
}
