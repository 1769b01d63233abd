// internals/features/attendance/sessions/service/session_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"attendance_backend/internals/configs"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const topicMaxChars = 200

// DuplicatePolicy decides what happens when a second session is opened for
// the same schedule entry and date.
type DuplicatePolicy string

const (
	DuplicateReuse  DuplicatePolicy = "reuse"
	DuplicateReject DuplicatePolicy = "reject"
	DuplicateAllow  DuplicatePolicy = "allow"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicateReuse, DuplicateReject, DuplicateAllow:
		return p, nil
	case "":
		return DuplicateReuse, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want reuse, reject or allow)", s)
	}
}

// Service owns the attendance recording workflow.
type Service struct {
	DB          *gorm.DB
	TopicPolicy helper.WordPolicy
	Duplicates  DuplicatePolicy
	Location    *time.Location
	Now         dbtime.Clock
}

func New(db *gorm.DB, cfg *configs.Config) (*Service, error) {
	dup, err := ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	return &Service{
		DB: db,
		TopicPolicy: helper.WordPolicy{
			MinWords:   cfg.TopicMinWords,
			MaxWords:   cfg.TopicMaxWords,
			ExactWords: cfg.TopicExactWords,
		},
		Duplicates: dup,
		Location:   cfg.Location(),
		Now:        time.Now,
	}, nil
}

// Today is the current date in the school timezone.
func (s *Service) Today() time.Time {
	return dbtime.Today(s.Now, s.Location)
}

func (s *Service) checkTopic(topic string) error {
	if len([]rune(topic)) > topicMaxChars {
		return helper.Invalid("topic", fmt.Sprintf("must be at most %d characters", topicMaxChars))
	}
	if msg := s.TopicPolicy.Check(topic); msg != "" {
		return helper.Invalid("topic", msg)
	}
	return nil
}

// checkMarks validates the statuses submitted for the given students. Marks
// keyed by anyone else are ignored by the caller, so they are not checked.
func checkMarks(marks map[uuid.UUID]sessionModel.Mark, studentIDs []uuid.UUID) error {
	fields := map[string][]string{}
	for _, id := range studentIDs {
		m, ok := marks[id]
		if ok && m.Status != "" && !m.Status.Valid() {
			fields["status_"+id.String()] = []string{fmt.Sprintf("%q is not a valid status", m.Status)}
		}
	}
	if len(fields) > 0 {
		return helper.InvalidFields(fields)
	}
	return nil
}

/* ===============================
   CREATE
=============================== */

type CreateInput struct {
	ScheduleID uuid.UUID
	Date       *time.Time // nil means today
	Topic      string
	Marks      map[uuid.UUID]sessionModel.Mark
}

type CreateResult struct {
	Session sessionModel.AttendanceSessionModel
	Created bool
	Records int
}

// CreateSession opens a session for a schedule entry and writes one record
// per active student of the class in the same transaction.
func (s *Service) CreateSession(ctx context.Context, p helperAuth.Principal, in CreateInput) (*CreateResult, error) {
	topic := strings.TrimSpace(in.Topic)
	if err := s.checkTopic(topic); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var sched scheduleModel.ScheduleEntryModel
	if err := db.
		Where("schedule_id = ? AND schedule_is_active = ?", in.ScheduleID, true).
		Take(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("schedule entry not found")
		}
		return nil, err
	}
	if !p.CanActFor(sched.ScheduleTeacherID) {
		return nil, helper.Forbidden("you can only take attendance for your own lessons")
	}

	date := s.Today()
	if in.Date != nil {
		date = dbtime.DateOnly(*in.Date)
	}

	sess := sessionModel.AttendanceSessionModel{
		AttendanceSessionScheduleID: sched.ScheduleID,
		AttendanceSessionTeacherID:  sched.ScheduleTeacherID,
		AttendanceSessionClassID:    sched.ScheduleClassID,
		AttendanceSessionDate:       dbtime.ToDate(date),
		AttendanceSessionTopic:      topic,
	}
	if s.Duplicates != DuplicateAllow {
		key := sessionModel.SlotKey(sched.ScheduleID, date)
		sess.AttendanceSessionSlotKey = &key
	}

	var written int
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sess).Error; err != nil {
			return err
		}
		records, err := buildRecords(tx, sess, in.Marks)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		written = len(records)
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) && sess.AttendanceSessionSlotKey != nil {
			return s.onDuplicate(ctx, *sess.AttendanceSessionSlotKey)
		}
		return nil, err
	}

	log.Printf("[INFO] attendance session %s opened for schedule %s on %s (%d records)",
		sess.AttendanceSessionID, sched.ScheduleID, date.Format(dbtime.DateLayout), written)
	return &CreateResult{Session: sess, Created: true, Records: written}, nil
}

func (s *Service) onDuplicate(ctx context.Context, slotKey string) (*CreateResult, error) {
	if s.Duplicates == DuplicateReject {
		return nil, helper.Invalid("date", "attendance for this lesson and date has already been taken")
	}
	var existing sessionModel.AttendanceSessionModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_session_slot_key = ?", slotKey).
		Take(&existing).Error; err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&sessionModel.AttendanceRecordModel{}).
		Where("attendance_record_session_id = ?", existing.AttendanceSessionID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	return &CreateResult{Session: existing, Created: false, Records: int(n)}, nil
}

// buildRecords makes one record per active student of the session's class.
// Marks for students outside the class are dropped; an invalid status for an
// enrolled student fails the whole call.
func buildRecords(tx *gorm.DB, sess sessionModel.AttendanceSessionModel, marks map[uuid.UUID]sessionModel.Mark) ([]sessionModel.AttendanceRecordModel, error) {
	var studentIDs []uuid.UUID
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_class_id = ? AND student_is_active = ?", sess.AttendanceSessionClassID, true).
		Order("student_last_name ASC, student_first_name ASC").
		Pluck("student_id", &studentIDs).Error; err != nil {
		return nil, err
	}
	if err := checkMarks(marks, studentIDs); err != nil {
		return nil, err
	}

	records := make([]sessionModel.AttendanceRecordModel, 0, len(studentIDs))
	for _, sid := range studentIDs {
		rec := sessionModel.AttendanceRecordModel{
			AttendanceRecordSessionID: sess.AttendanceSessionID,
			AttendanceRecordStudentID: sid,
			AttendanceRecordStatus:    sessionModel.StatusPresent,
		}
		if m, ok := marks[sid]; ok {
			if m.Status != "" {
				rec.AttendanceRecordStatus = m.Status
			}
			rec.AttendanceRecordRemark = strings.TrimSpace(m.Remark)
		}
		records = append(records, rec)
	}
	return records, nil
}

/* ===============================
   READ
=============================== */

// loadSession fetches a session and checks that p may act on it.
func (s *Service) loadSession(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*sessionModel.AttendanceSessionModel, error) {
	var sess sessionModel.AttendanceSessionModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_session_id = ?", id).
		Take(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("attendance session not found")
		}
		return nil, err
	}
	if !p.CanActFor(sess.AttendanceSessionTeacherID) {
		return nil, helper.Forbidden("this attendance session belongs to another teacher")
	}
	return &sess, nil
}

type RecordRow struct {
	AttendanceRecordID        uuid.UUID                     `json:"attendance_record_id"`
	AttendanceRecordStudentID uuid.UUID                     `json:"attendance_record_student_id"`
	StudentFirstName          string                        `json:"student_first_name"`
	StudentLastName           string                        `json:"student_last_name"`
	StudentNationalID         string                        `json:"student_national_id"`
	AttendanceRecordStatus    sessionModel.AttendanceStatus `json:"attendance_record_status"`
	AttendanceRecordRemark    string                        `json:"attendance_record_remark,omitempty"`
}

type SessionDetail struct {
	Session sessionModel.AttendanceSessionModel
	Records []RecordRow
}

// GetSession returns the session with its records ordered by student name.
func (s *Service) GetSession(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*SessionDetail, error) {
	sess, err := s.loadSession(ctx, p, id)
	if err != nil {
		return nil, err
	}
	rows := []RecordRow{}
	if err := s.DB.WithContext(ctx).
		Table("attendance_records AS r").
		Select(`r.attendance_record_id, r.attendance_record_student_id,
			st.student_first_name, st.student_last_name, st.student_national_id,
			r.attendance_record_status, r.attendance_record_remark`).
		Joins("JOIN students AS st ON st.student_id = r.attendance_record_student_id").
		Where("r.attendance_record_session_id = ?", sess.AttendanceSessionID).
		Order("st.student_last_name ASC, st.student_first_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &SessionDetail{Session: *sess, Records: rows}, nil
}

type ListFilter struct {
	TeacherID *uuid.UUID
	ClassID   *uuid.UUID
	Date      *time.Time
	From      *time.Time
	To        *time.Time
}

type SessionRow struct {
	AttendanceSessionID         uuid.UUID `json:"attendance_session_id"`
	AttendanceSessionScheduleID uuid.UUID `json:"attendance_session_schedule_id"`
	AttendanceSessionTeacherID  uuid.UUID `json:"attendance_session_teacher_id"`
	AttendanceSessionClassID    uuid.UUID `json:"attendance_session_class_id"`
	AttendanceSessionDate       time.Time `json:"attendance_session_date"`
	AttendanceSessionTopic      string    `json:"attendance_session_topic"`
	AttendanceSessionCreatedAt  time.Time `json:"attendance_session_created_at"`
	ScheduleLessonName          string    `json:"schedule_lesson_name"`
	ClassName                   string    `json:"class_name"`
	TeacherName                 string    `json:"teacher_name"`
	TotalRecords                int64     `json:"total_records"`
	AbsentCount                 int64     `json:"absent_count"`
}

// ListSessions lists sessions newest first. Teachers only see their own.
func (s *Service) ListSessions(ctx context.Context, p helperAuth.Principal, f ListFilter, pg helper.Params) ([]SessionRow, int64, error) {
	if !p.IsAdmin() {
		id := p.ID
		f.TeacherID = &id
	}

	q := s.DB.WithContext(ctx).Table("attendance_sessions AS s")
	if f.TeacherID != nil {
		q = q.Where("s.attendance_session_teacher_id = ?", *f.TeacherID)
	}
	if f.ClassID != nil {
		q = q.Where("s.attendance_session_class_id = ?", *f.ClassID)
	}
	if f.Date != nil {
		q = q.Where("s.attendance_session_date = ?", dbtime.ToDate(*f.Date))
	}
	if f.From != nil {
		q = q.Where("s.attendance_session_date >= ?", dbtime.ToDate(*f.From))
	}
	if f.To != nil {
		q = q.Where("s.attendance_session_date <= ?", dbtime.ToDate(*f.To))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []SessionRow{}
	if err := q.
		Select(`s.attendance_session_id, s.attendance_session_schedule_id,
			s.attendance_session_teacher_id, s.attendance_session_class_id,
			s.attendance_session_date, s.attendance_session_topic, s.attendance_session_created_at,
			sch.schedule_lesson_name, c.class_name,
			COALESCE(NULLIF(u.full_name, ''), u.user_name) AS teacher_name,
			(SELECT COUNT(*) FROM attendance_records r WHERE r.attendance_record_session_id = s.attendance_session_id) AS total_records,
			(SELECT COUNT(*) FROM attendance_records r WHERE r.attendance_record_session_id = s.attendance_session_id
				AND r.attendance_record_status = 'absent') AS absent_count`).
		Joins("JOIN schedule_entries AS sch ON sch.schedule_id = s.attendance_session_schedule_id").
		Joins("JOIN classes AS c ON c.class_id = s.attendance_session_class_id").
		Joins("JOIN users AS u ON u.id = s.attendance_session_teacher_id").
		Order("s.attendance_session_date DESC, s.attendance_session_created_at DESC").
		Limit(pg.Limit()).Offset(pg.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* ===============================
   UPDATE / DELETE
=============================== */

// UpdateTopic corrects the topic of an existing session.
func (s *Service) UpdateTopic(ctx context.Context, p helperAuth.Principal, id uuid.UUID, topic string) (*sessionModel.AttendanceSessionModel, error) {
	topic = strings.TrimSpace(topic)
	if err := s.checkTopic(topic); err != nil {
		return nil, err
	}
	sess, err := s.loadSession(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(sess).
		Update("attendance_session_topic", topic).Error; err != nil {
		return nil, err
	}
	sess.AttendanceSessionTopic = topic
	return sess, nil
}

// DeleteSession removes a session and its records. Administrators only.
func (s *Service) DeleteSession(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	if !p.IsAdmin() {
		return helper.Forbidden("only administrators can delete attendance sessions")
	}
	sess, err := s.loadSession(ctx, p, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendance_record_session_id = ?", sess.AttendanceSessionID).
			Delete(&sessionModel.AttendanceRecordModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sessionModel.AttendanceSessionModel{}, "attendance_session_id = ?", sess.AttendanceSessionID).Error
	})
}
