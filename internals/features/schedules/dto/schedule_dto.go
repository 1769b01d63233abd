package dto

import (
	"strings"

	"attendance_backend/internals/features/schedules/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	ScheduleTeacherID  uuid.UUID `json:"schedule_teacher_id" validate:"required"`
	ScheduleClassID    uuid.UUID `json:"schedule_class_id" validate:"required"`
	ScheduleLessonName string    `json:"schedule_lesson_name" validate:"required,max=100"`
	ScheduleWeekday    int       `json:"schedule_weekday" validate:"required,min=1,max=7"`
	ScheduleStartTime  string    `json:"schedule_start_time" validate:"required"`
	ScheduleEndTime    string    `json:"schedule_end_time" validate:"required"`
	ScheduleRoom       string    `json:"schedule_room" validate:"omitempty,max=50"`
	ScheduleIsActive   *bool     `json:"schedule_is_active"`
}

func (r *CreateScheduleRequest) Normalize() {
	r.ScheduleLessonName = strings.TrimSpace(r.ScheduleLessonName)
	r.ScheduleStartTime = strings.TrimSpace(r.ScheduleStartTime)
	r.ScheduleEndTime = strings.TrimSpace(r.ScheduleEndTime)
	r.ScheduleRoom = strings.TrimSpace(r.ScheduleRoom)
}

type UpdateScheduleRequest struct {
	ScheduleTeacherID  *uuid.UUID `json:"schedule_teacher_id"`
	ScheduleClassID    *uuid.UUID `json:"schedule_class_id"`
	ScheduleLessonName *string    `json:"schedule_lesson_name" validate:"omitnil,min=1,max=100"`
	ScheduleWeekday    *int       `json:"schedule_weekday" validate:"omitnil,min=1,max=7"`
	ScheduleStartTime  *string    `json:"schedule_start_time"`
	ScheduleEndTime    *string    `json:"schedule_end_time"`
	ScheduleRoom       *string    `json:"schedule_room" validate:"omitnil,max=50"`
	ScheduleIsActive   *bool      `json:"schedule_is_active"`
}

func (r *UpdateScheduleRequest) Normalize() {
	for _, p := range []*string{r.ScheduleLessonName, r.ScheduleStartTime, r.ScheduleEndTime, r.ScheduleRoom} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// Apply copies the set fields onto m. Times are validated by the caller.
func (r *UpdateScheduleRequest) Apply(m *model.ScheduleEntryModel, start, end *dbtime.Tod) {
	if r.ScheduleTeacherID != nil {
		m.ScheduleTeacherID = *r.ScheduleTeacherID
	}
	if r.ScheduleClassID != nil {
		m.ScheduleClassID = *r.ScheduleClassID
	}
	if r.ScheduleLessonName != nil {
		m.ScheduleLessonName = *r.ScheduleLessonName
	}
	if r.ScheduleWeekday != nil {
		m.ScheduleWeekday = *r.ScheduleWeekday
	}
	if start != nil {
		m.ScheduleStartTime = *start
	}
	if end != nil {
		m.ScheduleEndTime = *end
	}
	if r.ScheduleRoom != nil {
		m.ScheduleRoom = *r.ScheduleRoom
	}
	if r.ScheduleIsActive != nil {
		m.ScheduleIsActive = *r.ScheduleIsActive
	}
}

type ScheduleResponse struct {
	ScheduleID         uuid.UUID  `json:"schedule_id"`
	ScheduleTeacherID  uuid.UUID  `json:"schedule_teacher_id"`
	TeacherName        string     `json:"teacher_name"`
	ScheduleClassID    uuid.UUID  `json:"schedule_class_id"`
	ClassName          string     `json:"class_name"`
	ScheduleLessonName string     `json:"schedule_lesson_name"`
	ScheduleWeekday    int        `json:"schedule_weekday"`
	WeekdayName        string     `json:"weekday_name"`
	ScheduleStartTime  dbtime.Tod `json:"schedule_start_time"`
	ScheduleEndTime    dbtime.Tod `json:"schedule_end_time"`
	ScheduleRoom       string     `json:"schedule_room,omitempty"`
	ScheduleIsActive   bool       `json:"schedule_is_active"`
}

func ToScheduleResponse(m model.ScheduleEntryModel, teacherName, className string) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:         m.ScheduleID,
		ScheduleTeacherID:  m.ScheduleTeacherID,
		TeacherName:        teacherName,
		ScheduleClassID:    m.ScheduleClassID,
		ClassName:          className,
		ScheduleLessonName: m.ScheduleLessonName,
		ScheduleWeekday:    m.ScheduleWeekday,
		WeekdayName:        m.WeekdayName(),
		ScheduleStartTime:  m.ScheduleStartTime,
		ScheduleEndTime:    m.ScheduleEndTime,
		ScheduleRoom:       m.ScheduleRoom,
		ScheduleIsActive:   m.ScheduleIsActive,
	}
}

// TodayEntry is a schedule entry of the current day with its attendance state.
type TodayEntry struct {
	ScheduleResponse
	AttendanceTaken bool       `json:"attendance_taken"`
	SessionID       *uuid.UUID `json:"attendance_session_id,omitempty"`
}
