package dto

import (
	"time"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* ===============================
   Requests
=============================== */

type CreateSessionRequest struct {
	ScheduleID string               `json:"schedule_id" form:"schedule_id" validate:"required,uuid"`
	Date       string               `json:"date" form:"date"`
	Topic      string               `json:"topic" form:"topic"`
	Marks      map[string]MarkInput `json:"marks,omitempty" form:"-"`
}

type RecordAttendanceRequest struct {
	Marks map[string]MarkInput `json:"marks,omitempty" form:"-"`
}

type UpdateTopicRequest struct {
	Topic string `json:"topic" form:"topic"`
}

type MarkOneRequest struct {
	Status string `json:"status" form:"status"`
	Remark string `json:"remark" form:"remark"`
}

type PurgeRequest struct {
	Before string `json:"before" form:"before" validate:"required"`
}

/* ===============================
   Responses
=============================== */

type SessionResponse struct {
	AttendanceSessionID         uuid.UUID `json:"attendance_session_id"`
	AttendanceSessionScheduleID uuid.UUID `json:"attendance_session_schedule_id"`
	AttendanceSessionTeacherID  uuid.UUID `json:"attendance_session_teacher_id"`
	AttendanceSessionClassID    uuid.UUID `json:"attendance_session_class_id"`
	AttendanceSessionDate       string    `json:"attendance_session_date"`
	AttendanceSessionTopic      string    `json:"attendance_session_topic"`
	AttendanceSessionCreatedAt  time.Time `json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt  time.Time `json:"attendance_session_updated_at"`
}

func FromSessionModel(m sessionModel.AttendanceSessionModel) SessionResponse {
	return SessionResponse{
		AttendanceSessionID:         m.AttendanceSessionID,
		AttendanceSessionScheduleID: m.AttendanceSessionScheduleID,
		AttendanceSessionTeacherID:  m.AttendanceSessionTeacherID,
		AttendanceSessionClassID:    m.AttendanceSessionClassID,
		AttendanceSessionDate:       dbtime.FormatDate(m.AttendanceSessionDate),
		AttendanceSessionTopic:      m.AttendanceSessionTopic,
		AttendanceSessionCreatedAt:  m.AttendanceSessionCreatedAt,
		AttendanceSessionUpdatedAt:  m.AttendanceSessionUpdatedAt,
	}
}

type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`
	Created bool            `json:"created"`
	Records int             `json:"records"`
}

type RecordResponse struct {
	AttendanceRecordID        uuid.UUID                     `json:"attendance_record_id"`
	AttendanceRecordSessionID uuid.UUID                     `json:"attendance_record_session_id"`
	AttendanceRecordStudentID uuid.UUID                     `json:"attendance_record_student_id"`
	AttendanceRecordStatus    sessionModel.AttendanceStatus `json:"attendance_record_status"`
	AttendanceRecordRemark    string                        `json:"attendance_record_remark,omitempty"`
	AttendanceRecordUpdatedAt time.Time                     `json:"attendance_record_updated_at"`
}

func FromRecordModel(m sessionModel.AttendanceRecordModel) RecordResponse {
	return RecordResponse{
		AttendanceRecordID:        m.AttendanceRecordID,
		AttendanceRecordSessionID: m.AttendanceRecordSessionID,
		AttendanceRecordStudentID: m.AttendanceRecordStudentID,
		AttendanceRecordStatus:    m.AttendanceRecordStatus,
		AttendanceRecordRemark:    m.AttendanceRecordRemark,
		AttendanceRecordUpdatedAt: m.AttendanceRecordUpdatedAt,
	}
}
