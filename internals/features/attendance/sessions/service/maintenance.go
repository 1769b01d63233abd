package service

import (
	"context"
	"log"
	"time"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type PurgeResult struct {
	Cutoff          time.Time `json:"cutoff"`
	SessionsDeleted int64     `json:"sessions_deleted"`
	RecordsDeleted  int64     `json:"records_deleted"`
}

// PurgeBefore deletes every session dated strictly before cutoff, with its
// records. Administrators only.
func (s *Service) PurgeBefore(ctx context.Context, p helperAuth.Principal, cutoff time.Time) (*PurgeResult, error) {
	if !p.IsAdmin() {
		return nil, helper.Forbidden("only administrators may purge attendance")
	}
	return s.purge(ctx, cutoff)
}

func (s *Service) purge(ctx context.Context, cutoff time.Time) (*PurgeResult, error) {
	cutoff = dbtime.DateOnly(cutoff)
	res := &PurgeResult{Cutoff: cutoff}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&sessionModel.AttendanceSessionModel{}).
			Select("attendance_session_id").
			Where("attendance_session_date < ?", dbtime.ToDate(cutoff))

		r := tx.Where("attendance_record_session_id IN (?)", old).
			Delete(&sessionModel.AttendanceRecordModel{})
		if r.Error != nil {
			return r.Error
		}
		res.RecordsDeleted = r.RowsAffected

		r = tx.Where("attendance_session_date < ?", dbtime.ToDate(cutoff)).
			Delete(&sessionModel.AttendanceSessionModel{})
		if r.Error != nil {
			return r.Error
		}
		res.SessionsDeleted = r.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[CLEANUP] purged %d attendance sessions (%d records) dated before %s",
		res.SessionsDeleted, res.RecordsDeleted, cutoff.Format(dbtime.DateLayout))
	return res, nil
}

type Settings struct {
	TotalSessions   int64      `json:"total_sessions"`
	TotalRecords    int64      `json:"total_records"`
	OldestSession   *time.Time `json:"oldest_session,omitempty"`
	DuplicatePolicy string     `json:"duplicate_policy"`
	TopicMinWords   int        `json:"topic_min_words"`
	TopicMaxWords   int        `json:"topic_max_words"`
	TopicExactWords int        `json:"topic_exact_words"`
}

// SettingsSummary reports stored attendance volume and the active policies.
func (s *Service) SettingsSummary(ctx context.Context) (*Settings, error) {
	db := s.DB.WithContext(ctx)
	out := &Settings{
		DuplicatePolicy: string(s.Duplicates),
		TopicMinWords:   s.TopicPolicy.MinWords,
		TopicMaxWords:   s.TopicPolicy.MaxWords,
		TopicExactWords: s.TopicPolicy.ExactWords,
	}
	if err := db.Model(&sessionModel.AttendanceSessionModel{}).Count(&out.TotalSessions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&sessionModel.AttendanceRecordModel{}).Count(&out.TotalRecords).Error; err != nil {
		return nil, err
	}
	if out.TotalSessions > 0 {
		var oldest sessionModel.AttendanceSessionModel
		if err := db.Order("attendance_session_date ASC").Take(&oldest).Error; err != nil {
			return nil, err
		}
		t := time.Time(oldest.AttendanceSessionDate)
		out.OldestSession = &t
	}
	return out, nil
}

// StartRetentionScheduler purges sessions older than retentionDays on the
// given cron schedule. Does nothing when retentionDays <= 0.
func StartRetentionScheduler(svc *Service, schedule string, retentionDays int) *cron.Cron {
	if retentionDays <= 0 {
		log.Println("[RETENTION] disabled (ATTENDANCE_RETENTION_DAYS=0)")
		return nil
	}
	c := cron.New(
		cron.WithLocation(svc.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		cutoff := svc.Today().AddDate(0, 0, -retentionDays)
		if _, err := svc.purge(ctx, cutoff); err != nil {
			log.Printf("[RETENTION] purge failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("[RETENTION] add cron failed: %v", err)
	}
	log.Printf("[RETENTION] started schedule=%q retention=%dd", schedule, retentionDays)
	c.Start()
	return c
}
