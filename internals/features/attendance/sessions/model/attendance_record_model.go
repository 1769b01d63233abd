package model

import (
	"time"

	studentModel "attendance_backend/internals/features/roster/students/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
	StatusLate    AttendanceStatus = "late"
)

// Statuses in display order.
var Statuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusExcused, StatusLate}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused, StatusLate:
		return true
	}
	return false
}

// Mark is a submitted status for one student. An empty Status means present.
type Mark struct {
	Status AttendanceStatus `json:"status"`
	Remark string           `json:"remark,omitempty"`
}

// AttendanceRecordModel is one student's status within a session.
// (session_id, student_id) is unique.
type AttendanceRecordModel struct {
	AttendanceRecordID        uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_record_id" json:"attendance_record_id"`
	AttendanceRecordSessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_records_session_student,priority:1;column:attendance_record_session_id" json:"attendance_record_session_id"`
	AttendanceRecordStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_records_session_student,priority:2;index;column:attendance_record_student_id" json:"attendance_record_student_id"`

	AttendanceRecordStatus AttendanceStatus `gorm:"type:varchar(10);not null;default:'present';index;column:attendance_record_status" json:"attendance_record_status"`
	AttendanceRecordRemark string           `gorm:"size:255;column:attendance_record_remark" json:"attendance_record_remark,omitempty"`

	AttendanceRecordCreatedAt time.Time `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt time.Time `gorm:"column:attendance_record_updated_at;autoUpdateTime" json:"attendance_record_updated_at"`

	Session *AttendanceSessionModel   `gorm:"foreignKey:AttendanceRecordSessionID;references:AttendanceSessionID;constraint:OnDelete:CASCADE" json:"-"`
	Student *studentModel.StudentModel `gorm:"foreignKey:AttendanceRecordStudentID;references:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	if m.AttendanceRecordStatus == "" {
		m.AttendanceRecordStatus = StatusPresent
	}
	return nil
}
