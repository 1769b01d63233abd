package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/testdb"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Monday 4 March 2024, 10:00 UTC.
var fixedNow = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	teacher  helperAuth.Principal
	other    helperAuth.Principal
	admin    helperAuth.Principal
	sched    scheduleModel.ScheduleEntryModel
	students []studentModel.StudentModel
}

func newFixture(t *testing.T, policy DuplicatePolicy) *fixture {
	t.Helper()
	db := testdb.New(t)

	teacher := testdb.User(t, db, "ayse", constants.RoleTeacher)
	other := testdb.User(t, db, "mehmet", constants.RoleTeacher)
	admin := testdb.User(t, db, "root", constants.RoleAdministrator)
	class := testdb.Class(t, db, "9-A")
	students := []studentModel.StudentModel{
		testdb.Student(t, db, class.ClassID, "Ali", "Demir", true),
		testdb.Student(t, db, class.ClassID, "Can", "Kaya", true),
		testdb.Student(t, db, class.ClassID, "Ece", "Yilmaz", true),
	}
	testdb.Student(t, db, class.ClassID, "Old", "Leaver", false)
	sched := testdb.Schedule(t, db, teacher.ID, class.ClassID, "Mathematics", 1)

	return &fixture{
		db: db,
		svc: &Service{
			DB:          db,
			TopicPolicy: helper.WordPolicy{MinWords: 1},
			Duplicates:  policy,
			Location:    time.UTC,
			Now:         func() time.Time { return fixedNow },
		},
		teacher:  helperAuth.Principal{ID: teacher.ID, Role: constants.RoleTeacher},
		other:    helperAuth.Principal{ID: other.ID, Role: constants.RoleTeacher},
		admin:    helperAuth.Principal{ID: admin.ID, Role: constants.RoleAdministrator},
		sched:    sched,
		students: students,
	}
}

func asServiceError(err error, target **helper.ServiceError) bool {
	return errors.As(err, target)
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) statuses(t *testing.T, sessionID uuid.UUID) map[uuid.UUID]sessionModel.AttendanceStatus {
	t.Helper()
	var recs []sessionModel.AttendanceRecordModel
	if err := f.db.Where("attendance_record_session_id = ?", sessionID).Find(&recs).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	out := map[uuid.UUID]sessionModel.AttendanceStatus{}
	for _, r := range recs {
		out[r.AttendanceRecordStudentID] = r.AttendanceRecordStatus
	}
	return out
}

func TestCreateSessionDefaultsEveryActiveStudentToPresent(t *testing.T) {
	f := newFixture(t, DuplicateReuse)

	res, err := f.svc.CreateSession(context.Background(), f.teacher, CreateInput{
		ScheduleID: f.sched.ScheduleID,
		Topic:      "Algebra review session",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !res.Created || res.Records != 3 {
		t.Fatalf("got created=%v records=%d, want created=true records=3", res.Created, res.Records)
	}
	if got := time.Time(res.Session.AttendanceSessionDate).Format("2006-01-02"); got != "2024-03-04" {
		t.Fatalf("date = %s, want today 2024-03-04", got)
	}

	got := f.statuses(t, res.Session.AttendanceSessionID)
	if len(got) != 3 {
		t.Fatalf("records = %d, want 3 (inactive student excluded)", len(got))
	}
	for _, st := range f.students {
		if got[st.StudentID] != sessionModel.StatusPresent {
			t.Errorf("student %s status = %q, want present", st.StudentFirstName, got[st.StudentID])
		}
	}
}

func TestCreateSessionAppliesMarksAndIgnoresUnknownStudents(t *testing.T) {
	f := newFixture(t, DuplicateReuse)
	stranger := uuid.New()

	res, err := f.svc.CreateSession(context.Background(), f.teacher, CreateInput{
		ScheduleID: f.sched.ScheduleID,
		Topic:      "Fractions",
		Marks: map[uuid.UUID]sessionModel.Mark{
			f.students[0].StudentID: {Status: sessionModel.StatusAbsent, Remark: " sick "},
			f.students[1].StudentID: {Status: sessionModel.StatusLate},
			stranger:                {Status: sessionModel.StatusAbsent},
		},
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got := f.statuses(t, res.Session.AttendanceSessionID)
	want := map[uuid.UUID]sessionModel.AttendanceStatus{
		f.students[0].StudentID: sessionModel.StatusAbsent,
		f.students[1].StudentID: sessionModel.StatusLate,
		f.students[2].StudentID: sessionModel.StatusPresent,
	}
	if len(got) != len(want) {
		t.Fatalf("records = %d, want %d", len(got), len(want))
	}
	for id, st := range want {
		if got[id] != st {
			t.Errorf("student %s = %q, want %q", id, got[id], st)
		}
	}
	if _, ok := got[stranger]; ok {
		t.Fatalf("record written for a student outside the class")
	}

	var rec sessionModel.AttendanceRecordModel
	if err := f.db.Where("attendance_record_student_id = ?", f.students[0].StudentID).Take(&rec).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if rec.AttendanceRecordRemark != "sick" {
		t.Fatalf("remark = %q, want trimmed %q", rec.AttendanceRecordRemark, "sick")
	}
}

func TestCreateSessionTopicPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  helper.WordPolicy
		topic   string
		wantErr bool
	}{
		{"non-empty accepts one word", helper.WordPolicy{MinWords: 1}, "Algebra", false},
		{"non-empty rejects blank", helper.WordPolicy{MinWords: 1}, "   ", true},
		{"min three rejects one word", helper.WordPolicy{MinWords: 3}, "Algebra", true},
		{"min three accepts three", helper.WordPolicy{MinWords: 3}, "Algebra review session", false},
		{"exact three rejects four", helper.WordPolicy{ExactWords: 3}, "a b c d", true},
		{"max two rejects three", helper.WordPolicy{MaxWords: 2}, "a b c", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DuplicateAllow)
			f.svc.TopicPolicy = tt.policy

			_, err := f.svc.CreateSession(context.Background(), f.teacher, CreateInput{
				ScheduleID: f.sched.ScheduleID,
				Topic:      tt.topic,
			})
			if tt.wantErr {
				var se *helper.ServiceError
				if !asServiceError(err, &se) || se.Kind != helper.KindValidation || len(se.Fields["topic"]) == 0 {
					t.Fatalf("err = %v, want validation error on topic", err)
				}
				if n := f.count(t, &sessionModel.AttendanceSessionModel{}); n != 0 {
					t.Fatalf("sessions = %d after rejected topic, want 0", n)
				}
				if n := f.count(t, &sessionModel.AttendanceRecordModel{}); n != 0 {
					t.Fatalf("records = %d after rejected topic, want 0", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
		})
	}
}

func TestCreateSessionRejectsTopicOverLimit(t *testing.T) {
	f := newFixture(t, DuplicateReuse)
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := f.svc.CreateSession(context.Background(), f.teacher, CreateInput{
		ScheduleID: f.sched.ScheduleID,
		Topic:      string(long),
	})
	if !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateSessionAuthorization(t *testing.T) {
	f := newFixture(t, DuplicateAllow)
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, f.other, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "x"})
	if !helper.IsKind(err, helper.KindForbidden) {
		t.Fatalf("other teacher: err = %v, want forbidden", err)
	}
	if n := f.count(t, &sessionModel.AttendanceSessionModel{}); n != 0 {
		t.Fatalf("sessions = %d after forbidden create, want 0", n)
	}

	if _, err := f.svc.CreateSession(ctx, f.admin, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "x"}); err != nil {
		t.Fatalf("admin: %v", err)
	}

	_, err = f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: uuid.New(), Topic: "x"})
	if !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown schedule: err = %v, want not found", err)
	}

	if err := f.db.Model(&scheduleModel.ScheduleEntryModel{}).
		Where("schedule_id = ?", f.sched.ScheduleID).
		Update("schedule_is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "x"})
	if !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("inactive schedule: err = %v, want not found", err)
	}
}

func TestCreateSessionDuplicatePolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("reuse returns the existing session", func(t *testing.T) {
		f := newFixture(t, DuplicateReuse)
		first, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "first"})
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		second, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "second"})
		if err != nil {
			t.Fatalf("second: %v", err)
		}
		if second.Created {
			t.Fatalf("second.Created = true, want false")
		}
		if second.Session.AttendanceSessionID != first.Session.AttendanceSessionID {
			t.Fatalf("reuse returned a different session")
		}
		if second.Records != 3 {
			t.Fatalf("second.Records = %d, want 3", second.Records)
		}
		if n := f.count(t, &sessionModel.AttendanceSessionModel{}); n != 1 {
			t.Fatalf("sessions = %d, want 1", n)
		}
		if n := f.count(t, &sessionModel.AttendanceRecordModel{}); n != 3 {
			t.Fatalf("records = %d, want 3", n)
		}
	})

	t.Run("reject reports the date", func(t *testing.T) {
		f := newFixture(t, DuplicateReject)
		if _, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "first"}); err != nil {
			t.Fatalf("first: %v", err)
		}
		_, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "second"})
		var se *helper.ServiceError
		if !asServiceError(err, &se) || se.Kind != helper.KindValidation || len(se.Fields["date"]) == 0 {
			t.Fatalf("err = %v, want validation error on date", err)
		}
		if n := f.count(t, &sessionModel.AttendanceRecordModel{}); n != 3 {
			t.Fatalf("records = %d, want 3 (no partial insert)", n)
		}
	})

	t.Run("other dates are independent", func(t *testing.T) {
		f := newFixture(t, DuplicateReject)
		yesterday := fixedNow.AddDate(0, 0, -1)
		if _, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "a"}); err != nil {
			t.Fatalf("today: %v", err)
		}
		if _, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Date: &yesterday, Topic: "b"}); err != nil {
			t.Fatalf("yesterday: %v", err)
		}
	})

	t.Run("allow creates another session", func(t *testing.T) {
		f := newFixture(t, DuplicateAllow)
		for i := 0; i < 2; i++ {
			res, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "again"})
			if err != nil {
				t.Fatalf("create %d: %v", i, err)
			}
			if !res.Created {
				t.Fatalf("create %d: Created = false", i)
			}
		}
		if n := f.count(t, &sessionModel.AttendanceSessionModel{}); n != 2 {
			t.Fatalf("sessions = %d, want 2", n)
		}
	})
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", DuplicateReuse, false},
		{"reuse", DuplicateReuse, false},
		{" Reject ", DuplicateReject, false},
		{"allow", DuplicateAllow, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDuplicatePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDuplicatePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestUpdateTopic(t *testing.T) {
	f := newFixture(t, DuplicateReuse)
	ctx := context.Background()
	res, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Session.AttendanceSessionID

	if _, err := f.svc.UpdateTopic(ctx, f.other, id, "hijack"); !helper.IsKind(err, helper.KindForbidden) {
		t.Fatalf("other teacher: err = %v, want forbidden", err)
	}
	if _, err := f.svc.UpdateTopic(ctx, f.teacher, id, ""); !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("blank topic: err = %v, want validation", err)
	}
	sess, err := f.svc.UpdateTopic(ctx, f.teacher, id, "  Linear equations ")
	if err != nil {
		t.Fatalf("UpdateTopic: %v", err)
	}
	if sess.AttendanceSessionTopic != "Linear equations" {
		t.Fatalf("topic = %q", sess.AttendanceSessionTopic)
	}
}

func TestListSessionsScopesTeachers(t *testing.T) {
	f := newFixture(t, DuplicateAllow)
	ctx := context.Background()
	if _, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "mine"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	pg := helper.Params{Page: 1, PerPage: 20}

	rows, total, err := f.svc.ListSessions(ctx, f.other, ListFilter{}, pg)
	if err != nil {
		t.Fatalf("list as other: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("other teacher sees %d sessions, want 0", total)
	}

	rows, total, err = f.svc.ListSessions(ctx, f.admin, ListFilter{}, pg)
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("admin sees %d sessions, want 1", total)
	}
	if rows[0].TotalRecords != 3 || rows[0].ClassName != "9-A" || rows[0].ScheduleLessonName != "Mathematics" {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestDeleteSessionRemovesRecords(t *testing.T) {
	f := newFixture(t, DuplicateReuse)
	ctx := context.Background()
	res, err := f.svc.CreateSession(ctx, f.teacher, CreateInput{ScheduleID: f.sched.ScheduleID, Topic: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Session.AttendanceSessionID

	for _, tt := range []struct {
		name string
		p    helperAuth.Principal
	}{
		{"recording teacher", f.teacher},
		{"other teacher", f.other},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.svc.DeleteSession(ctx, tt.p, id); !helper.IsKind(err, helper.KindForbidden) {
				t.Fatalf("err = %v, want forbidden", err)
			}
		})
	}
	if n := f.count(t, &sessionModel.AttendanceRecordModel{}); n != 3 {
		t.Fatalf("records = %d after refused deletes, want 3", n)
	}

	if err := f.svc.DeleteSession(ctx, f.admin, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := f.count(t, &sessionModel.AttendanceRecordModel{}); n != 0 {
		t.Fatalf("records = %d after delete, want 0", n)
	}
	if err := f.svc.DeleteSession(ctx, f.admin, id); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("second delete: err = %v, want not found", err)
	}
}
