package service

import (
	"context"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	scheduleService "attendance_backend/internals/features/schedules/service"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/testdb"

	"github.com/google/uuid"
)

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func TestDashboards(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	ayse := testdb.User(t, db, "ayse", constants.RoleTeacher)
	mehmet := testdb.User(t, db, "mehmet", constants.RoleTeacher)
	admin := testdb.User(t, db, "root", constants.RoleAdministrator)
	a := testdb.Class(t, db, "9-A")
	b := testdb.Class(t, db, "10-B")
	ali := testdb.Student(t, db, a.ClassID, "Ali", "Veli", true)
	testdb.Student(t, db, a.ClassID, "Zeynep", "Kaya", true)
	testdb.Student(t, db, a.ClassID, "Can", "Yildiz", false)

	math := testdb.Schedule(t, db, ayse.ID, a.ClassID, "Math", 1)
	testdb.Schedule(t, db, ayse.ID, b.ClassID, "Physics", 1)
	history := testdb.Schedule(t, db, mehmet.ID, a.ClassID, "History", 3)

	marks := map[uuid.UUID]sessionModel.AttendanceStatus{ali.StudentID: sessionModel.StatusPresent}
	testdb.Session(t, db, math, day(4), marks)
	testdb.Session(t, db, history, day(1), nil)
	testdb.Session(t, db, history, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), nil)

	svc := NewDashboardService(db, &scheduleService.ScheduleService{
		DB:       db,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) },
	})

	t.Run("admin", func(t *testing.T) {
		out, err := svc.Admin(ctx)
		if err != nil {
			t.Fatalf("Admin: %v", err)
		}
		want := Counters{Teachers: 2, Classes: 2, ActiveStudents: 2, SessionsToday: 1, SessionsThisMonth: 2, ActiveSchedules: 3}
		if out.Counters != want {
			t.Fatalf("counters = %+v, want %+v", out.Counters, want)
		}
		if len(out.LatestSessions) != 3 || len(out.LatestStudents) != 3 {
			t.Fatalf("latest = %d sessions, %d students", len(out.LatestSessions), len(out.LatestStudents))
		}
		for _, s := range out.LatestSessions {
			if s.ClassName != "9-A" || s.TeacherName == "" || s.LessonName == "" {
				t.Fatalf("latest session = %+v", s)
			}
		}
	})

	t.Run("teacher", func(t *testing.T) {
		out, err := svc.Teacher(ctx, helperAuth.Principal{ID: ayse.ID, Role: constants.RoleTeacher})
		if err != nil {
			t.Fatalf("Teacher: %v", err)
		}
		if out.Date != "2024-03-04" || out.WeekdayName != "Monday" || len(out.Today) != 2 {
			t.Fatalf("dashboard = %+v", out)
		}
		if !out.Today[0].AttendanceTaken || out.Today[1].AttendanceTaken || out.Pending != 1 {
			t.Fatalf("flags = %+v, pending = %d", out.Today, out.Pending)
		}
		if out.SessionsThisMonth != 1 {
			t.Fatalf("sessions this month = %d", out.SessionsThisMonth)
		}
	})

	t.Run("teacher without entries today", func(t *testing.T) {
		out, err := svc.Teacher(ctx, helperAuth.Principal{ID: mehmet.ID, Role: constants.RoleTeacher})
		if err != nil {
			t.Fatalf("Teacher: %v", err)
		}
		if len(out.Today) != 0 || out.Pending != 0 || out.SessionsThisMonth != 1 {
			t.Fatalf("dashboard = %+v", out)
		}
	})

	t.Run("admin through teacher view", func(t *testing.T) {
		out, err := svc.Teacher(ctx, helperAuth.Principal{ID: admin.ID, Role: constants.RoleAdministrator})
		if err != nil || out.SessionsThisMonth != 2 {
			t.Fatalf("sessions = %d, err = %v", out.SessionsThisMonth, err)
		}
	})
}
