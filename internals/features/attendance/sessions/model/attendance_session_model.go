package model

import (
	"fmt"
	"time"

	classModel "attendance_backend/internals/features/roster/classes/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	userModel "attendance_backend/internals/features/users/user/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttendanceSessionModel is one class meeting for which attendance was taken.
//
// AttendanceSessionSlotKey holds "<schedule_id>|<YYYY-MM-DD>" when at most one
// session per schedule and day is allowed, and NULL otherwise.
type AttendanceSessionModel struct {
	AttendanceSessionID         uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_session_id" json:"attendance_session_id"`
	AttendanceSessionScheduleID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_session_schedule_id" json:"attendance_session_schedule_id"`
	AttendanceSessionTeacherID  uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_sessions_teacher_date,priority:1;column:attendance_session_teacher_id" json:"attendance_session_teacher_id"`
	AttendanceSessionClassID    uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_sessions_class_date,priority:1;column:attendance_session_class_id" json:"attendance_session_class_id"`

	AttendanceSessionDate    datatypes.Date `gorm:"not null;index:idx_attendance_sessions_teacher_date,priority:2;index:idx_attendance_sessions_class_date,priority:2;column:attendance_session_date" json:"attendance_session_date"`
	AttendanceSessionTopic   string         `gorm:"size:200;not null;column:attendance_session_topic" json:"attendance_session_topic"`
	AttendanceSessionSlotKey *string        `gorm:"size:64;uniqueIndex:uq_attendance_sessions_slot;column:attendance_session_slot_key" json:"-"`

	AttendanceSessionCreatedAt time.Time `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt time.Time `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at"`

	Schedule *scheduleModel.ScheduleEntryModel `gorm:"foreignKey:AttendanceSessionScheduleID;references:ScheduleID;constraint:OnDelete:CASCADE" json:"-"`
	Teacher  *userModel.UserModel             `gorm:"foreignKey:AttendanceSessionTeacherID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	Class    *classModel.ClassModel           `gorm:"foreignKey:AttendanceSessionClassID;references:ClassID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}

func (m *AttendanceSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceSessionID == uuid.Nil {
		m.AttendanceSessionID = uuid.New()
	}
	return nil
}

// SlotKey identifies a (schedule, day) pair.
func SlotKey(scheduleID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s|%s", scheduleID, date.Format(dbtime.DateLayout))
}
