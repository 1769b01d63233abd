package service

import (
	"context"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/testdb"

	"github.com/google/uuid"
)

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func TestAbsenceRate(t *testing.T) {
	tests := []struct {
		counts StatusCounts
		want   float64
	}{
		{StatusCounts{}, 0},
		{StatusCounts{Absent: 1, Present: 2, Total: 3}, 33.3},
		{StatusCounts{Absent: 2, Present: 1, Total: 3}, 66.7},
		{StatusCounts{Absent: 4, Total: 4}, 100},
		{StatusCounts{Late: 1, Excused: 1, Total: 2}, 0},
	}
	for _, tt := range tests {
		if got := tt.counts.AbsenceRate(); got != tt.want {
			t.Errorf("%+v.AbsenceRate() = %v, want %v", tt.counts, got, tt.want)
		}
	}
}

func TestReports(t *testing.T) {
	db := testdb.New(t)
	svc := New(db)
	ctx := context.Background()

	teacher := testdb.User(t, db, "ayse", constants.RoleTeacher)
	other := testdb.User(t, db, "mehmet", constants.RoleTeacher)
	class := testdb.Class(t, db, "9-A")
	ali := testdb.Student(t, db, class.ClassID, "Ali", "Demir", true)
	can := testdb.Student(t, db, class.ClassID, "Can", "Kaya", true)
	ece := testdb.Student(t, db, class.ClassID, "Ece", "Yilmaz", true)
	sched := testdb.Schedule(t, db, teacher.ID, class.ClassID, "Mathematics", 1)

	first := testdb.Session(t, db, sched, day(4), map[uuid.UUID]sessionModel.AttendanceStatus{
		ali.StudentID: sessionModel.StatusPresent,
		can.StudentID: sessionModel.StatusAbsent,
		ece.StudentID: sessionModel.StatusPresent,
	})
	testdb.Session(t, db, sched, day(11), map[uuid.UUID]sessionModel.AttendanceStatus{
		ali.StudentID: sessionModel.StatusLate,
		can.StudentID: sessionModel.StatusAbsent,
		ece.StudentID: sessionModel.StatusExcused,
	})

	t.Run("session summary", func(t *testing.T) {
		owner := helperAuth.Principal{ID: teacher.ID, Role: constants.RoleTeacher}
		got, err := svc.SessionSummary(ctx, owner, first.AttendanceSessionID)
		if err != nil {
			t.Fatalf("SessionSummary: %v", err)
		}
		want := StatusCounts{Present: 2, Absent: 1, Total: 3}
		if *got != want {
			t.Fatalf("summary = %+v, want %+v", *got, want)
		}
		if got.AbsenceRate() != 33.3 {
			t.Fatalf("rate = %v", got.AbsenceRate())
		}

		stranger := helperAuth.Principal{ID: other.ID, Role: constants.RoleTeacher}
		if _, err := svc.SessionSummary(ctx, stranger, first.AttendanceSessionID); !helper.IsKind(err, helper.KindForbidden) {
			t.Fatalf("stranger: err = %v, want forbidden", err)
		}
		if _, err := svc.SessionSummary(ctx, owner, uuid.New()); !helper.IsKind(err, helper.KindNotFound) {
			t.Fatalf("missing: err = %v, want not found", err)
		}
	})

	t.Run("student report over range", func(t *testing.T) {
		rep, err := svc.StudentReport(ctx, can.StudentID, DateRange{})
		if err != nil {
			t.Fatalf("StudentReport: %v", err)
		}
		if rep.Counts.Absent != 2 || rep.Counts.Total != 2 || rep.AbsenceRate != 100 {
			t.Fatalf("report = %+v", rep)
		}
		if len(rep.Records) != 2 || !rep.Records[0].AttendanceSessionDate.Equal(day(11)) {
			t.Fatalf("records not newest first: %+v", rep.Records)
		}

		from, to := day(1), day(5)
		rep, err = svc.StudentReport(ctx, ali.StudentID, DateRange{From: &from, To: &to})
		if err != nil {
			t.Fatalf("StudentReport ranged: %v", err)
		}
		if rep.Counts.Total != 1 || rep.Counts.Present != 1 {
			t.Fatalf("ranged counts = %+v", rep.Counts)
		}

		if _, err := svc.StudentReport(ctx, uuid.New(), DateRange{}); !helper.IsKind(err, helper.KindNotFound) {
			t.Fatalf("missing student: err = %v", err)
		}
	})

	t.Run("class report is idempotent", func(t *testing.T) {
		a, err := svc.ClassReport(ctx, class.ClassID, DateRange{})
		if err != nil {
			t.Fatalf("ClassReport: %v", err)
		}
		b, err := svc.ClassReport(ctx, class.ClassID, DateRange{})
		if err != nil {
			t.Fatalf("ClassReport again: %v", err)
		}
		if len(a.Students) != 3 || len(a.Sessions) != 2 {
			t.Fatalf("class report = %d students %d sessions", len(a.Students), len(a.Sessions))
		}
		for i := range a.Students {
			if a.Students[i] != b.Students[i] {
				t.Fatalf("student row %d changed between runs", i)
			}
		}
		if a.Students[0].StudentID != ali.StudentID || a.Students[0].Counts.Late != 1 {
			t.Fatalf("first row = %+v", a.Students[0])
		}
		if a.Sessions[0].TeacherName != "ayse" {
			t.Fatalf("teacher name = %q", a.Sessions[0].TeacherName)
		}
	})

	t.Run("workbook", func(t *testing.T) {
		f, rep, err := svc.ExportClassReport(ctx, class.ClassID, DateRange{})
		if err != nil {
			t.Fatalf("ExportClassReport: %v", err)
		}
		defer f.Close()
		if rep.ClassName != "9-A" {
			t.Fatalf("class = %q", rep.ClassName)
		}
		header, err := f.GetCellValue(summarySheet, "A1")
		if err != nil || header != "Student" {
			t.Fatalf("A1 = %q, %v", header, err)
		}
		name, _ := f.GetCellValue(summarySheet, "A2")
		if name != ali.FullName() {
			t.Fatalf("A2 = %q, want %q", name, ali.FullName())
		}
		rows, err := f.GetRows(sessionsSheet)
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		if len(rows) != 3 || rows[1][0] != "2024-03-11" {
			t.Fatalf("sessions sheet = %v", rows)
		}
	})

	t.Run("empty after purge", func(t *testing.T) {
		if err := db.Where("1 = 1").Delete(&sessionModel.AttendanceRecordModel{}).Error; err != nil {
			t.Fatalf("delete records: %v", err)
		}
		if err := db.Where("1 = 1").Delete(&sessionModel.AttendanceSessionModel{}).Error; err != nil {
			t.Fatalf("delete sessions: %v", err)
		}
		rep, err := svc.StudentReport(ctx, ali.StudentID, DateRange{})
		if err != nil {
			t.Fatalf("StudentReport: %v", err)
		}
		if rep.Counts.Total != 0 || rep.AbsenceRate != 0 || len(rep.Records) != 0 {
			t.Fatalf("report after purge = %+v", rep)
		}
		cr, err := svc.ClassReport(ctx, class.ClassID, DateRange{})
		if err != nil {
			t.Fatalf("ClassReport: %v", err)
		}
		if len(cr.Sessions) != 0 || len(cr.Students) != 3 || cr.Students[0].Counts.Total != 0 {
			t.Fatalf("class report after purge = %+v", cr)
		}
	})
}
