package service

import (
	"context"
	"time"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	classModel "attendance_backend/internals/features/roster/classes/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	scheduleDTO "attendance_backend/internals/features/schedules/dto"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	scheduleService "attendance_backend/internals/features/schedules/service"
	userModel "attendance_backend/internals/features/users/user/model"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const latestLimit = 5

type DashboardService struct {
	DB        *gorm.DB
	Schedules *scheduleService.ScheduleService
}

func NewDashboardService(db *gorm.DB, schedules *scheduleService.ScheduleService) *DashboardService {
	return &DashboardService{DB: db, Schedules: schedules}
}

type Counters struct {
	Teachers          int64 `json:"teachers"`
	Classes           int64 `json:"classes"`
	ActiveStudents    int64 `json:"active_students"`
	SessionsToday     int64 `json:"sessions_today"`
	SessionsThisMonth int64 `json:"sessions_this_month"`
	ActiveSchedules   int64 `json:"active_schedules"`
}

type LatestSession struct {
	AttendanceSessionID    uuid.UUID `json:"attendance_session_id"`
	AttendanceSessionDate  time.Time `json:"attendance_session_date"`
	AttendanceSessionTopic string    `json:"attendance_session_topic"`
	ClassName              string    `json:"class_name"`
	LessonName             string    `json:"lesson_name"`
	TeacherName            string    `json:"teacher_name"`
}

type LatestStudent struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentFirstName  string    `json:"student_first_name"`
	StudentLastName   string    `json:"student_last_name"`
	ClassName         string    `json:"class_name"`
	StudentEnrolledAt time.Time `json:"student_enrolled_at"`
}

type AdminDashboard struct {
	Date           string          `json:"date"`
	Counters       Counters        `json:"counters"`
	LatestSessions []LatestSession `json:"latest_sessions"`
	LatestStudents []LatestStudent `json:"latest_students"`
}

type TeacherDashboard struct {
	Date              string                   `json:"date"`
	Weekday           int                      `json:"weekday"`
	WeekdayName       string                   `json:"weekday_name"`
	Today             []scheduleDTO.TodayEntry `json:"today"`
	Pending           int                      `json:"pending"`
	SessionsThisMonth int64                    `json:"sessions_this_month"`
}

func (s *DashboardService) today() time.Time {
	return dbtime.Today(s.Schedules.Now, s.Schedules.Location)
}

func (s *DashboardService) counters(db *gorm.DB, today time.Time) (Counters, error) {
	var c Counters
	steps := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{db.Model(&userModel.UserModel{}).Where("role = ?", constants.RoleTeacher), &c.Teachers},
		{db.Model(&classModel.ClassModel{}), &c.Classes},
		{db.Model(&studentModel.StudentModel{}).Where("student_is_active = ?", true), &c.ActiveStudents},
		{db.Model(&sessionModel.AttendanceSessionModel{}).
			Where("attendance_session_date = ?", dbtime.ToDate(today)), &c.SessionsToday},
		{db.Model(&sessionModel.AttendanceSessionModel{}).
			Where("attendance_session_date >= ? AND attendance_session_date <= ?",
				dbtime.ToDate(dbtime.MonthStart(today)), dbtime.ToDate(today)), &c.SessionsThisMonth},
		{db.Model(&scheduleModel.ScheduleEntryModel{}).Where("schedule_is_active = ?", true), &c.ActiveSchedules},
	}
	for _, st := range steps {
		if err := st.q.Count(st.dst).Error; err != nil {
			return c, err
		}
	}
	return c, nil
}

// Admin gathers the administrator overview.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	db := s.DB.WithContext(ctx)
	today := s.today()

	c, err := s.counters(db, today)
	if err != nil {
		return nil, err
	}

	sessions := []LatestSession{}
	if err := db.Table("attendance_sessions AS s").
		Select(`s.attendance_session_id, s.attendance_session_date, s.attendance_session_topic,
			c.class_name, e.schedule_lesson_name AS lesson_name,
			COALESCE(NULLIF(u.full_name, ''), u.user_name) AS teacher_name`).
		Joins("JOIN classes c ON c.class_id = s.attendance_session_class_id").
		Joins("JOIN schedule_entries e ON e.schedule_id = s.attendance_session_schedule_id").
		Joins("JOIN users u ON u.id = s.attendance_session_teacher_id").
		Order("s.attendance_session_created_at DESC").
		Limit(latestLimit).
		Scan(&sessions).Error; err != nil {
		return nil, err
	}

	students := []LatestStudent{}
	if err := db.Table("students AS st").
		Select("st.student_id, st.student_first_name, st.student_last_name, c.class_name, st.student_enrolled_at").
		Joins("JOIN classes c ON c.class_id = st.student_class_id").
		Order("st.student_enrolled_at DESC").
		Limit(latestLimit).
		Scan(&students).Error; err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Date:           today.Format(dbtime.DateLayout),
		Counters:       c,
		LatestSessions: sessions,
		LatestStudents: students,
	}, nil
}

// Teacher shows today's entries for p with their attendance state.
func (s *DashboardService) Teacher(ctx context.Context, p helperAuth.Principal) (*TeacherDashboard, error) {
	day, entries, err := s.Schedules.Today(ctx, p)
	if err != nil {
		return nil, err
	}
	pending := 0
	for _, e := range entries {
		if !e.AttendanceTaken {
			pending++
		}
	}

	q := s.DB.WithContext(ctx).Model(&sessionModel.AttendanceSessionModel{}).
		Where("attendance_session_date >= ? AND attendance_session_date <= ?",
			dbtime.ToDate(dbtime.MonthStart(day)), dbtime.ToDate(day))
	if !p.IsAdmin() {
		q = q.Where("attendance_session_teacher_id = ?", p.ID)
	}
	var month int64
	if err := q.Count(&month).Error; err != nil {
		return nil, err
	}

	wd := dbtime.Weekday(day)
	return &TeacherDashboard{
		Date:              day.Format(dbtime.DateLayout),
		Weekday:           wd,
		WeekdayName:       scheduleModel.WeekdayNames[wd],
		Today:             entries,
		Pending:           pending,
		SessionsThisMonth: month,
	}, nil
}
