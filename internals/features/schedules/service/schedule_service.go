package service

import (
	"context"
	"errors"
	"log"
	"time"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	classModel "attendance_backend/internals/features/roster/classes/model"
	classService "attendance_backend/internals/features/roster/classes/service"
	"attendance_backend/internals/features/schedules/dto"
	"attendance_backend/internals/features/schedules/model"
	userModel "attendance_backend/internals/features/users/user/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const slotTaken = "this teacher already has this class at that weekday and start time"

type ScheduleService struct {
	DB       *gorm.DB
	Location *time.Location
	Now      dbtime.Clock
}

func NewScheduleService(db *gorm.DB, cfg *configs.Config) *ScheduleService {
	return &ScheduleService{DB: db, Location: cfg.Location(), Now: time.Now}
}

type ScheduleFilter struct {
	TeacherID *uuid.UUID
	ClassID   *uuid.UUID
	Weekday   int
	IsActive  *bool
}

func (f ScheduleFilter) apply(q *gorm.DB) *gorm.DB {
	if f.TeacherID != nil {
		q = q.Where("schedule_teacher_id = ?", *f.TeacherID)
	}
	if f.ClassID != nil {
		q = q.Where("schedule_class_id = ?", *f.ClassID)
	}
	if f.Weekday != 0 {
		q = q.Where("schedule_weekday = ?", f.Weekday)
	}
	if f.IsActive != nil {
		q = q.Where("schedule_is_active = ?", *f.IsActive)
	}
	return q
}

func (s *ScheduleService) respond(db *gorm.DB, rows []model.ScheduleEntryModel) ([]dto.ScheduleResponse, error) {
	teacherIDs, classIDs := []uuid.UUID{}, []uuid.UUID{}
	for _, r := range rows {
		teacherIDs = append(teacherIDs, r.ScheduleTeacherID)
		classIDs = append(classIDs, r.ScheduleClassID)
	}
	teachers := map[uuid.UUID]string{}
	classes := map[uuid.UUID]string{}
	if len(rows) > 0 {
		var users []userModel.UserModel
		if err := db.Select("id, user_name, full_name").Where("id IN ?", teacherIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			teachers[u.ID] = u.DisplayName()
		}
		var cls []classModel.ClassModel
		if err := db.Select("class_id, class_name").Where("class_id IN ?", classIDs).Find(&cls).Error; err != nil {
			return nil, err
		}
		for _, c := range cls {
			classes[c.ClassID] = c.ClassName
		}
	}
	out := make([]dto.ScheduleResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToScheduleResponse(r, teachers[r.ScheduleTeacherID], classes[r.ScheduleClassID]))
	}
	return out, nil
}

// List orders by weekday, then start time.
func (s *ScheduleService) List(ctx context.Context, f ScheduleFilter, pg helper.Params) ([]dto.ScheduleResponse, int64, error) {
	db := s.DB.WithContext(ctx)
	q := f.apply(db.Model(&model.ScheduleEntryModel{}))

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ScheduleEntryModel
	if err := q.Order("schedule_weekday ASC, schedule_start_time ASC, schedule_lesson_name ASC").
		Limit(pg.Limit()).Offset(pg.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.respond(db, rows)
	return out, total, err
}

func (s *ScheduleService) load(db *gorm.DB, id uuid.UUID) (*model.ScheduleEntryModel, error) {
	var m model.ScheduleEntryModel
	if err := db.Where("schedule_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("schedule entry not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID) (*dto.ScheduleResponse, error) {
	db := s.DB.WithContext(ctx)
	m, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	out, err := s.respond(db, []model.ScheduleEntryModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func parseTimes(start, end string) (dbtime.Tod, dbtime.Tod, error) {
	fields := map[string][]string{}
	st, err := dbtime.ParseTod(start)
	if err != nil {
		fields["schedule_start_time"] = []string{"must be HH:MM"}
	}
	en, err := dbtime.ParseTod(end)
	if err != nil {
		fields["schedule_end_time"] = []string{"must be HH:MM"}
	}
	if len(fields) > 0 {
		return st, en, helper.InvalidFields(fields)
	}
	return st, en, nil
}

// validate checks references, time order and the slot uniqueness of m.
func (s *ScheduleService) validate(ctx context.Context, db *gorm.DB, m *model.ScheduleEntryModel) error {
	if m.ScheduleWeekday < 1 || m.ScheduleWeekday > 7 {
		return helper.Invalid("schedule_weekday", "must be between 1 (Monday) and 7 (Sunday)")
	}
	if !m.ScheduleStartTime.Before(m.ScheduleEndTime) {
		return helper.Invalid("schedule_end_time", "must be after the start time")
	}

	var teacher userModel.UserModel
	if err := db.Select("id, role").Where("id = ?", m.ScheduleTeacherID).Take(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Invalid("schedule_teacher_id", "teacher does not exist")
		}
		return err
	}
	if teacher.Role != constants.RoleTeacher {
		return helper.Invalid("schedule_teacher_id", "user is not a teacher")
	}
	if err := classService.Exists(ctx, db, m.ScheduleClassID, "schedule_class_id"); err != nil {
		return err
	}

	var n int64
	if err := db.Model(&model.ScheduleEntryModel{}).
		Where("schedule_teacher_id = ? AND schedule_class_id = ? AND schedule_weekday = ? AND schedule_start_time = ? AND schedule_id <> ?",
			m.ScheduleTeacherID, m.ScheduleClassID, m.ScheduleWeekday, m.ScheduleStartTime, m.ScheduleID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.Invalid("schedule_start_time", slotTaken)
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	req.Normalize()
	start, end, err := parseTimes(req.ScheduleStartTime, req.ScheduleEndTime)
	if err != nil {
		return nil, err
	}
	active := true
	if req.ScheduleIsActive != nil {
		active = *req.ScheduleIsActive
	}
	m := model.ScheduleEntryModel{
		ScheduleTeacherID:  req.ScheduleTeacherID,
		ScheduleClassID:    req.ScheduleClassID,
		ScheduleLessonName: req.ScheduleLessonName,
		ScheduleWeekday:    req.ScheduleWeekday,
		ScheduleStartTime:  start,
		ScheduleEndTime:    end,
		ScheduleRoom:       req.ScheduleRoom,
		ScheduleIsActive:   active,
	}

	db := s.DB.WithContext(ctx)
	if err := s.validate(ctx, db, &m); err != nil {
		return nil, err
	}
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Invalid("schedule_start_time", slotTaken)
		}
		return nil, err
	}
	log.Printf("[INFO] schedule entry created id=%s weekday=%d start=%s", m.ScheduleID, m.ScheduleWeekday, m.ScheduleStartTime)
	return s.Get(ctx, m.ScheduleID)
}

func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	m, err := s.load(db, id)
	if err != nil {
		return nil, err
	}

	var start, end *dbtime.Tod
	if req.ScheduleStartTime != nil {
		t, err := dbtime.ParseTod(*req.ScheduleStartTime)
		if err != nil {
			return nil, helper.Invalid("schedule_start_time", "must be HH:MM")
		}
		start = &t
	}
	if req.ScheduleEndTime != nil {
		t, err := dbtime.ParseTod(*req.ScheduleEndTime)
		if err != nil {
			return nil, helper.Invalid("schedule_end_time", "must be HH:MM")
		}
		end = &t
	}
	req.Apply(m, start, end)
	if err := s.validate(ctx, db, m); err != nil {
		return nil, err
	}

	if err := db.Model(&model.ScheduleEntryModel{}).Where("schedule_id = ?", id).Updates(map[string]any{
		"schedule_teacher_id":  m.ScheduleTeacherID,
		"schedule_class_id":    m.ScheduleClassID,
		"schedule_lesson_name": m.ScheduleLessonName,
		"schedule_weekday":     m.ScheduleWeekday,
		"schedule_start_time":  m.ScheduleStartTime,
		"schedule_end_time":    m.ScheduleEndTime,
		"schedule_room":        m.ScheduleRoom,
		"schedule_is_active":   m.ScheduleIsActive,
	}).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Invalid("schedule_start_time", slotTaken)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the entry together with the sessions recorded against it.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.ScheduleEntryModel{}, "schedule_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("schedule entry not found")
	}
	return nil
}

// Today lists the active entries for the current school day. Teachers see
// their own entries, administrators see every entry.
func (s *ScheduleService) Today(ctx context.Context, p helperAuth.Principal) (time.Time, []dto.TodayEntry, error) {
	today := dbtime.Today(s.Now, s.Location)
	db := s.DB.WithContext(ctx)

	active := true
	f := ScheduleFilter{Weekday: dbtime.Weekday(today), IsActive: &active}
	if !p.IsAdmin() {
		f.TeacherID = &p.ID
	}
	var rows []model.ScheduleEntryModel
	if err := f.apply(db.Model(&model.ScheduleEntryModel{})).
		Order("schedule_start_time ASC, schedule_lesson_name ASC").
		Find(&rows).Error; err != nil {
		return today, nil, err
	}
	base, err := s.respond(db, rows)
	if err != nil {
		return today, nil, err
	}

	taken := map[uuid.UUID]uuid.UUID{}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ScheduleID)
		}
		var sessions []sessionModel.AttendanceSessionModel
		if err := db.Select("attendance_session_id, attendance_session_schedule_id").
			Where("attendance_session_schedule_id IN ? AND attendance_session_date = ?", ids, dbtime.ToDate(today)).
			Order("attendance_session_created_at ASC").
			Find(&sessions).Error; err != nil {
			return today, nil, err
		}
		for _, ss := range sessions {
			if _, ok := taken[ss.AttendanceSessionScheduleID]; !ok {
				taken[ss.AttendanceSessionScheduleID] = ss.AttendanceSessionID
			}
		}
	}

	out := make([]dto.TodayEntry, 0, len(base))
	for _, b := range base {
		e := dto.TodayEntry{ScheduleResponse: b}
		if sid, ok := taken[b.ScheduleID]; ok {
			e.AttendanceTaken = true
			e.SessionID = &sid
		}
		out = append(out, e)
	}
	return today, out, nil
}
