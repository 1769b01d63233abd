package dto

import (
	"strings"
	"time"

	"attendance_backend/internals/features/roster/students/model"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateStudentRequest struct {
	StudentClassID       uuid.UUID `json:"student_class_id" validate:"required"`
	StudentFirstName     string    `json:"student_first_name" validate:"required,max=50"`
	StudentLastName      string    `json:"student_last_name" validate:"required,max=50"`
	StudentNationalID    string    `json:"student_national_id" validate:"required,len=11,numeric"`
	StudentBirthDate     string    `json:"student_birth_date" validate:"omitempty,datetime=2006-01-02"`
	StudentGender        string    `json:"student_gender" validate:"omitempty,oneof=M F"`
	StudentGuardianName  string    `json:"student_guardian_name" validate:"omitempty,max=100"`
	StudentGuardianPhone string    `json:"student_guardian_phone" validate:"omitempty,max=15"`
	StudentGuardianEmail string    `json:"student_guardian_email" validate:"omitempty,email,max=255"`
	StudentAddress       string    `json:"student_address"`
	StudentIsActive      *bool     `json:"student_is_active"`
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentFirstName = strings.TrimSpace(r.StudentFirstName)
	r.StudentLastName = strings.TrimSpace(r.StudentLastName)
	r.StudentNationalID = strings.TrimSpace(r.StudentNationalID)
	r.StudentBirthDate = strings.TrimSpace(r.StudentBirthDate)
	r.StudentGender = strings.ToUpper(strings.TrimSpace(r.StudentGender))
	r.StudentGuardianName = strings.TrimSpace(r.StudentGuardianName)
	r.StudentGuardianPhone = strings.TrimSpace(r.StudentGuardianPhone)
	r.StudentGuardianEmail = strings.ToLower(strings.TrimSpace(r.StudentGuardianEmail))
	r.StudentAddress = strings.TrimSpace(r.StudentAddress)
}

func birthDate(s string) (*datatypes.Date, error) {
	t, err := dbtime.ParseDatePtr(s)
	if err != nil {
		return nil, helper.Invalid("student_birth_date", err.Error())
	}
	if t == nil {
		return nil, nil
	}
	d := dbtime.ToDate(*t)
	return &d, nil
}

// ToModel builds the row; students are active unless told otherwise.
func (r *CreateStudentRequest) ToModel() (*model.StudentModel, error) {
	bd, err := birthDate(r.StudentBirthDate)
	if err != nil {
		return nil, err
	}
	active := true
	if r.StudentIsActive != nil {
		active = *r.StudentIsActive
	}
	return &model.StudentModel{
		StudentClassID:       r.StudentClassID,
		StudentFirstName:     r.StudentFirstName,
		StudentLastName:      r.StudentLastName,
		StudentNationalID:    r.StudentNationalID,
		StudentBirthDate:     bd,
		StudentGender:        model.Gender(r.StudentGender),
		StudentGuardianName:  r.StudentGuardianName,
		StudentGuardianPhone: r.StudentGuardianPhone,
		StudentGuardianEmail: r.StudentGuardianEmail,
		StudentAddress:       r.StudentAddress,
		StudentIsActive:      active,
	}, nil
}

// UpdateStudentRequest is a partial update; nil fields are left unchanged.
type UpdateStudentRequest struct {
	StudentClassID       *uuid.UUID `json:"student_class_id"`
	StudentFirstName     *string    `json:"student_first_name" validate:"omitnil,min=1,max=50"`
	StudentLastName      *string    `json:"student_last_name" validate:"omitnil,min=1,max=50"`
	StudentNationalID    *string    `json:"student_national_id" validate:"omitnil,len=11,numeric"`
	StudentBirthDate     *string    `json:"student_birth_date"`
	StudentGender        *string    `json:"student_gender" validate:"omitnil,oneof=M F"`
	StudentGuardianName  *string    `json:"student_guardian_name" validate:"omitempty,max=100"`
	StudentGuardianPhone *string    `json:"student_guardian_phone" validate:"omitempty,max=15"`
	StudentGuardianEmail *string    `json:"student_guardian_email" validate:"omitempty,email,max=255"`
	StudentAddress       *string    `json:"student_address"`
	StudentIsActive      *bool      `json:"student_is_active"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (r *UpdateStudentRequest) Normalize() {
	r.StudentFirstName = trimPtr(r.StudentFirstName)
	r.StudentLastName = trimPtr(r.StudentLastName)
	r.StudentNationalID = trimPtr(r.StudentNationalID)
	r.StudentBirthDate = trimPtr(r.StudentBirthDate)
	if g := trimPtr(r.StudentGender); g != nil {
		v := strings.ToUpper(*g)
		r.StudentGender = &v
	}
	r.StudentGuardianName = trimPtr(r.StudentGuardianName)
	r.StudentGuardianPhone = trimPtr(r.StudentGuardianPhone)
	if e := trimPtr(r.StudentGuardianEmail); e != nil {
		v := strings.ToLower(*e)
		r.StudentGuardianEmail = &v
	}
	r.StudentAddress = trimPtr(r.StudentAddress)
}

// ToUpdates maps set fields to columns. An empty birth date clears it.
func (r *UpdateStudentRequest) ToUpdates() (map[string]any, error) {
	up := map[string]any{}
	if r.StudentClassID != nil {
		up["student_class_id"] = *r.StudentClassID
	}
	set := func(col string, v *string) {
		if v != nil {
			up[col] = *v
		}
	}
	set("student_first_name", r.StudentFirstName)
	set("student_last_name", r.StudentLastName)
	set("student_national_id", r.StudentNationalID)
	set("student_gender", r.StudentGender)
	set("student_guardian_name", r.StudentGuardianName)
	set("student_guardian_phone", r.StudentGuardianPhone)
	set("student_guardian_email", r.StudentGuardianEmail)
	set("student_address", r.StudentAddress)
	if r.StudentBirthDate != nil {
		bd, err := birthDate(*r.StudentBirthDate)
		if err != nil {
			return nil, err
		}
		if bd == nil {
			up["student_birth_date"] = nil
		} else {
			up["student_birth_date"] = *bd
		}
	}
	if r.StudentIsActive != nil {
		up["student_is_active"] = *r.StudentIsActive
	}
	return up, nil
}

type StudentResponse struct {
	StudentID            uuid.UUID       `json:"student_id"`
	StudentClassID       uuid.UUID       `json:"student_class_id"`
	ClassName            string          `json:"class_name"`
	StudentFirstName     string          `json:"student_first_name"`
	StudentLastName      string          `json:"student_last_name"`
	StudentFullName      string          `json:"student_full_name"`
	StudentNationalID    string          `json:"student_national_id"`
	StudentBirthDate     *datatypes.Date `json:"student_birth_date,omitempty"`
	StudentGender        model.Gender    `json:"student_gender,omitempty"`
	StudentGuardianName  string          `json:"student_guardian_name,omitempty"`
	StudentGuardianPhone string          `json:"student_guardian_phone,omitempty"`
	StudentGuardianEmail string          `json:"student_guardian_email,omitempty"`
	StudentAddress       string          `json:"student_address,omitempty"`
	StudentIsActive      bool            `json:"student_is_active"`
	StudentEnrolledAt    time.Time       `json:"student_enrolled_at"`
}

func ToStudentResponse(m model.StudentModel, className string) StudentResponse {
	return StudentResponse{
		StudentID:            m.StudentID,
		StudentClassID:       m.StudentClassID,
		ClassName:            className,
		StudentFirstName:     m.StudentFirstName,
		StudentLastName:      m.StudentLastName,
		StudentFullName:      m.FullName(),
		StudentNationalID:    m.StudentNationalID,
		StudentBirthDate:     m.StudentBirthDate,
		StudentGender:        m.StudentGender,
		StudentGuardianName:  m.StudentGuardianName,
		StudentGuardianPhone: m.StudentGuardianPhone,
		StudentGuardianEmail: m.StudentGuardianEmail,
		StudentAddress:       m.StudentAddress,
		StudentIsActive:      m.StudentIsActive,
		StudentEnrolledAt:    m.StudentEnrolledAt,
	}
}
