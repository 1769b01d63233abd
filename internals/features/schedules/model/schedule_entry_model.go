package model

import (
	"time"

	classModel "attendance_backend/internals/features/roster/classes/model"
	userModel "attendance_backend/internals/features/users/user/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Weekday numbering: 1=Monday ... 7=Sunday.
var WeekdayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

type ScheduleEntryModel struct {
	ScheduleID        uuid.UUID `gorm:"type:uuid;primaryKey;column:schedule_id" json:"schedule_id"`
	ScheduleTeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_slot,priority:1;index;column:schedule_teacher_id" json:"schedule_teacher_id"`
	ScheduleClassID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_slot,priority:2;index;column:schedule_class_id" json:"schedule_class_id"`

	ScheduleLessonName string     `gorm:"size:100;not null;column:schedule_lesson_name" json:"schedule_lesson_name"`
	ScheduleWeekday    int        `gorm:"type:smallint;not null;uniqueIndex:uq_schedule_slot,priority:3;column:schedule_weekday" json:"schedule_weekday"`
	ScheduleStartTime  dbtime.Tod `gorm:"type:time;not null;uniqueIndex:uq_schedule_slot,priority:4;column:schedule_start_time" json:"schedule_start_time"`
	ScheduleEndTime    dbtime.Tod `gorm:"type:time;not null;column:schedule_end_time" json:"schedule_end_time"`
	ScheduleRoom       string     `gorm:"size:50;column:schedule_room" json:"schedule_room,omitempty"`
	ScheduleIsActive   bool       `gorm:"not null;column:schedule_is_active" json:"schedule_is_active"`

	ScheduleCreatedAt time.Time `gorm:"column:schedule_created_at;autoCreateTime" json:"schedule_created_at"`
	ScheduleUpdatedAt time.Time `gorm:"column:schedule_updated_at;autoUpdateTime" json:"schedule_updated_at"`

	Teacher *userModel.UserModel   `gorm:"foreignKey:ScheduleTeacherID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	Class   *classModel.ClassModel `gorm:"foreignKey:ScheduleClassID;references:ClassID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ScheduleEntryModel) TableName() string {
	return "schedule_entries"
}

func (m *ScheduleEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScheduleID == uuid.Nil {
		m.ScheduleID = uuid.New()
	}
	return nil
}

func (m ScheduleEntryModel) WeekdayName() string {
	return WeekdayNames[m.ScheduleWeekday]
}
