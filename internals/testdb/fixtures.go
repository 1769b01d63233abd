package testdb

import (
	"testing"
	"time"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	classModel "attendance_backend/internals/features/roster/classes/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	userModel "attendance_backend/internals/features/users/user/model"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func User(t testing.TB, db *gorm.DB, userName string, role constants.Role) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserName: userName,
		FullName: userName,
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", userName, err)
	}
	return u
}

func Class(t testing.TB, db *gorm.DB, name string) classModel.ClassModel {
	t.Helper()
	c := classModel.ClassModel{ClassName: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create class %s: %v", name, err)
	}
	return c
}

func Student(t testing.TB, db *gorm.DB, classID uuid.UUID, first, last string, active bool) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentClassID:    classID,
		StudentFirstName:  first,
		StudentLastName:   last,
		StudentNationalID: uuid.NewString()[:11],
		StudentIsActive:   active,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create student %s: %v", first, err)
	}
	return s
}

// Schedule creates an active entry at 09:00-09:40 on the given weekday.
func Schedule(t testing.TB, db *gorm.DB, teacherID, classID uuid.UUID, lesson string, weekday int) scheduleModel.ScheduleEntryModel {
	t.Helper()
	start, _ := dbtime.ParseTod("09:00")
	end, _ := dbtime.ParseTod("09:40")
	e := scheduleModel.ScheduleEntryModel{
		ScheduleTeacherID:  teacherID,
		ScheduleClassID:    classID,
		ScheduleLessonName: lesson,
		ScheduleWeekday:    weekday,
		ScheduleStartTime:  start,
		ScheduleEndTime:    end,
		ScheduleIsActive:   true,
	}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("create schedule %s: %v", lesson, err)
	}
	return e
}

// Session inserts a session with one record per status given, bypassing the
// workflow. Used by report tests.
func Session(t testing.TB, db *gorm.DB, sched scheduleModel.ScheduleEntryModel, date time.Time, marks map[uuid.UUID]sessionModel.AttendanceStatus) sessionModel.AttendanceSessionModel {
	t.Helper()
	s := sessionModel.AttendanceSessionModel{
		AttendanceSessionScheduleID: sched.ScheduleID,
		AttendanceSessionTeacherID:  sched.ScheduleTeacherID,
		AttendanceSessionClassID:    sched.ScheduleClassID,
		AttendanceSessionDate:       dbtime.ToDate(date),
		AttendanceSessionTopic:      "fixture",
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	for sid, st := range marks {
		r := sessionModel.AttendanceRecordModel{
			AttendanceRecordSessionID: s.AttendanceSessionID,
			AttendanceRecordStudentID: sid,
			AttendanceRecordStatus:    st,
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("create record: %v", err)
		}
	}
	return s
}
