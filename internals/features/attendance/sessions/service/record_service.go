package service

import (
	"context"
	"errors"
	"strings"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errStudentNotInClass = errors.New("student not in class")

type RecordResult struct {
	Session sessionModel.AttendanceSessionModel
	Saved   int
}

// RecordAttendance stores the submitted marks for every active student of
// the session's class. Students without a mark are saved as present; marks
// for unknown students are ignored. Re-submitting updates in place.
func (s *Service) RecordAttendance(ctx context.Context, p helperAuth.Principal, sessionID uuid.UUID, marks map[uuid.UUID]sessionModel.Mark) (*RecordResult, error) {
	sess, err := s.loadSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}

	var saved int
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := buildRecords(tx, *sess, marks)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_record_session_id"},
				{Name: "attendance_record_student_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_record_status",
				"attendance_record_remark",
				"attendance_record_updated_at",
			}),
		}).Create(&records).Error; err != nil {
			return err
		}
		saved = len(records)
		return tx.Model(&sessionModel.AttendanceSessionModel{}).
			Where("attendance_session_id = ?", sess.AttendanceSessionID).
			Update("attendance_session_updated_at", s.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &RecordResult{Session: *sess, Saved: saved}, nil
}

// MarkOne sets the status of a single student in a session. New rows are
// only written for active students of the class.
func (s *Service) MarkOne(ctx context.Context, p helperAuth.Principal, sessionID, studentID uuid.UUID, m sessionModel.Mark) (*sessionModel.AttendanceRecordModel, error) {
	sess, err := s.loadSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}
	status := m.Status
	if status == "" {
		status = sessionModel.StatusPresent
	}
	rec := sessionModel.AttendanceRecordModel{
		AttendanceRecordSessionID: sess.AttendanceSessionID,
		AttendanceRecordStudentID: studentID,
		AttendanceRecordStatus:    status,
		AttendanceRecordRemark:    strings.TrimSpace(m.Remark),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st struct {
			StudentIsActive bool
		}
		res := tx.Table("students").Select("student_is_active").
			Where("student_id = ? AND student_class_id = ?", studentID, sess.AttendanceSessionClassID).
			Limit(1).Scan(&st)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStudentNotInClass
		}
		// inactive students keep rows they already have but get no new ones
		if !st.StudentIsActive {
			var n int64
			if err := tx.Model(&sessionModel.AttendanceRecordModel{}).
				Where("attendance_record_session_id = ? AND attendance_record_student_id = ?",
					sess.AttendanceSessionID, studentID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errStudentNotInClass
			}
		}
		if err := checkMarks(map[uuid.UUID]sessionModel.Mark{studentID: m}, []uuid.UUID{studentID}); err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_record_session_id"},
				{Name: "attendance_record_student_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_record_status",
				"attendance_record_remark",
				"attendance_record_updated_at",
			}),
		}).Create(&rec).Error; err != nil {
			return err
		}
		var stored sessionModel.AttendanceRecordModel
		if err := tx.Where("attendance_record_session_id = ? AND attendance_record_student_id = ?",
			sess.AttendanceSessionID, studentID).Take(&stored).Error; err != nil {
			return err
		}
		rec = stored
		return nil
	})
	if errors.Is(err, errStudentNotInClass) {
		return nil, helper.NotFound("student is not an active member of this class")
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
