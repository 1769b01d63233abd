// internals/features/attendance/reports/service/report_service.go
package service

import (
	"context"
	"errors"
	"math"
	"time"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	classModel "attendance_backend/internals/features/roster/classes/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service aggregates attendance. Every method is read-only.
type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// DateRange bounds session dates inclusively; nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) apply(q *gorm.DB, col string) *gorm.DB {
	if r.From != nil {
		q = q.Where(col+" >= ?", dbtime.ToDate(*r.From))
	}
	if r.To != nil {
		q = q.Where(col+" <= ?", dbtime.ToDate(*r.To))
	}
	return q
}

type StatusCounts struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Excused int64 `json:"excused"`
	Late    int64 `json:"late"`
	Total   int64 `json:"total"`
}

func (c *StatusCounts) add(status sessionModel.AttendanceStatus, n int64) {
	switch status {
	case sessionModel.StatusPresent:
		c.Present += n
	case sessionModel.StatusAbsent:
		c.Absent += n
	case sessionModel.StatusExcused:
		c.Excused += n
	case sessionModel.StatusLate:
		c.Late += n
	}
	c.Total += n
}

// AbsenceRate is absent/total as a percentage rounded to one decimal, or 0
// when there are no records.
func (c StatusCounts) AbsenceRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return math.Round(float64(c.Absent)/float64(c.Total)*1000) / 10
}

type statusRow struct {
	StudentID uuid.UUID
	Status    sessionModel.AttendanceStatus
	N         int64
}

/* ===============================
   Per session
=============================== */

// SessionSummary counts the records of one session by status.
func (s *Service) SessionSummary(ctx context.Context, p helperAuth.Principal, sessionID uuid.UUID) (*StatusCounts, error) {
	db := s.DB.WithContext(ctx)

	var sess sessionModel.AttendanceSessionModel
	if err := db.Select("attendance_session_id, attendance_session_teacher_id").
		Where("attendance_session_id = ?", sessionID).
		Take(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("attendance session not found")
		}
		return nil, err
	}
	if !p.CanActFor(sess.AttendanceSessionTeacherID) {
		return nil, helper.Forbidden("this attendance session belongs to another teacher")
	}

	var rows []statusRow
	if err := db.Model(&sessionModel.AttendanceRecordModel{}).
		Select("attendance_record_status AS status, COUNT(*) AS n").
		Where("attendance_record_session_id = ?", sessionID).
		Group("attendance_record_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := &StatusCounts{}
	for _, r := range rows {
		out.add(r.Status, r.N)
	}
	return out, nil
}

/* ===============================
   Per student
=============================== */

type StudentRecordRow struct {
	AttendanceSessionID    uuid.UUID                     `json:"attendance_session_id"`
	AttendanceSessionDate  time.Time                     `json:"attendance_session_date"`
	AttendanceSessionTopic string                        `json:"attendance_session_topic"`
	ScheduleLessonName     string                        `json:"schedule_lesson_name"`
	ClassName              string                        `json:"class_name"`
	AttendanceRecordStatus sessionModel.AttendanceStatus `json:"attendance_record_status"`
	AttendanceRecordRemark string                        `json:"attendance_record_remark,omitempty"`
}

type StudentReport struct {
	StudentID   uuid.UUID          `json:"student_id"`
	FullName    string             `json:"full_name"`
	NationalID  string             `json:"national_id"`
	ClassID     uuid.UUID          `json:"class_id"`
	IsActive    bool               `json:"is_active"`
	Counts      StatusCounts       `json:"counts"`
	AbsenceRate float64            `json:"absence_rate"`
	Records     []StudentRecordRow `json:"records"`
}

// StudentReport aggregates one student's records whose session date falls in r.
func (s *Service) StudentReport(ctx context.Context, studentID uuid.UUID, r DateRange) (*StudentReport, error) {
	db := s.DB.WithContext(ctx)

	var st studentModel.StudentModel
	if err := db.Where("student_id = ?", studentID).Take(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("student not found")
		}
		return nil, err
	}

	counts, err := s.countsByStudent(db, []uuid.UUID{studentID}, r)
	if err != nil {
		return nil, err
	}

	rows := []StudentRecordRow{}
	q := db.Table("attendance_records AS r").
		Select(`s.attendance_session_id, s.attendance_session_date, s.attendance_session_topic,
			sch.schedule_lesson_name, c.class_name,
			r.attendance_record_status, r.attendance_record_remark`).
		Joins("JOIN attendance_sessions AS s ON s.attendance_session_id = r.attendance_record_session_id").
		Joins("JOIN schedule_entries AS sch ON sch.schedule_id = s.attendance_session_schedule_id").
		Joins("JOIN classes AS c ON c.class_id = s.attendance_session_class_id").
		Where("r.attendance_record_student_id = ?", studentID)
	q = r.apply(q, "s.attendance_session_date")
	if err := q.Order("s.attendance_session_date DESC, s.attendance_session_created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	c := counts[studentID]
	return &StudentReport{
		StudentID:   st.StudentID,
		FullName:    st.FullName(),
		NationalID:  st.StudentNationalID,
		ClassID:     st.StudentClassID,
		IsActive:    st.StudentIsActive,
		Counts:      c,
		AbsenceRate: c.AbsenceRate(),
		Records:     rows,
	}, nil
}

func (s *Service) countsByStudent(db *gorm.DB, studentIDs []uuid.UUID, r DateRange) (map[uuid.UUID]StatusCounts, error) {
	out := make(map[uuid.UUID]StatusCounts, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []statusRow
	q := db.Table("attendance_records AS r").
		Select("r.attendance_record_student_id AS student_id, r.attendance_record_status AS status, COUNT(*) AS n").
		Joins("JOIN attendance_sessions AS s ON s.attendance_session_id = r.attendance_record_session_id").
		Where("r.attendance_record_student_id IN ?", studentIDs)
	q = r.apply(q, "s.attendance_session_date")
	if err := q.Group("r.attendance_record_student_id, r.attendance_record_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		c := out[row.StudentID]
		c.add(row.Status, row.N)
		out[row.StudentID] = c
	}
	return out, nil
}

/* ===============================
   Per class
=============================== */

type ClassStudentRow struct {
	StudentID   uuid.UUID    `json:"student_id"`
	FullName    string       `json:"full_name"`
	NationalID  string       `json:"national_id"`
	Counts      StatusCounts `json:"counts"`
	AbsenceRate float64      `json:"absence_rate"`
}

type ClassSessionRow struct {
	AttendanceSessionID    uuid.UUID `json:"attendance_session_id"`
	AttendanceSessionDate  time.Time `json:"attendance_session_date"`
	AttendanceSessionTopic string    `json:"attendance_session_topic"`
	ScheduleLessonName     string    `json:"schedule_lesson_name"`
	TeacherName            string    `json:"teacher_name"`
}

type ClassReport struct {
	ClassID   uuid.UUID         `json:"class_id"`
	ClassName string            `json:"class_name"`
	From      *time.Time        `json:"from,omitempty"`
	To        *time.Time        `json:"to,omitempty"`
	Students  []ClassStudentRow `json:"students"`
	Sessions  []ClassSessionRow `json:"sessions"`
}

// ClassReport runs the per-student aggregation for every active student of
// the class and lists the class sessions in range.
func (s *Service) ClassReport(ctx context.Context, classID uuid.UUID, r DateRange) (*ClassReport, error) {
	db := s.DB.WithContext(ctx)

	var cls classModel.ClassModel
	if err := db.Where("class_id = ?", classID).Take(&cls).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("class not found")
		}
		return nil, err
	}

	var students []studentModel.StudentModel
	if err := db.Where("student_class_id = ? AND student_is_active = ?", classID, true).
		Order("student_last_name ASC, student_first_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.StudentID)
	}
	counts, err := s.countsByStudent(db, ids, r)
	if err != nil {
		return nil, err
	}

	out := &ClassReport{
		ClassID:   cls.ClassID,
		ClassName: cls.ClassName,
		From:      r.From,
		To:        r.To,
		Students:  make([]ClassStudentRow, 0, len(students)),
		Sessions:  []ClassSessionRow{},
	}
	for _, st := range students {
		c := counts[st.StudentID]
		out.Students = append(out.Students, ClassStudentRow{
			StudentID:   st.StudentID,
			FullName:    st.FullName(),
			NationalID:  st.StudentNationalID,
			Counts:      c,
			AbsenceRate: c.AbsenceRate(),
		})
	}

	q := db.Table("attendance_sessions AS s").
		Select(`s.attendance_session_id, s.attendance_session_date, s.attendance_session_topic,
			sch.schedule_lesson_name, COALESCE(NULLIF(u.full_name, ''), u.user_name) AS teacher_name`).
		Joins("JOIN schedule_entries AS sch ON sch.schedule_id = s.attendance_session_schedule_id").
		Joins("JOIN users AS u ON u.id = s.attendance_session_teacher_id").
		Where("s.attendance_session_class_id = ?", classID)
	q = r.apply(q, "s.attendance_session_date")
	if err := q.Order("s.attendance_session_date DESC, s.attendance_session_created_at DESC").
		Scan(&out.Sessions).Error; err != nil {
		return nil, err
	}
	return out, nil
}
