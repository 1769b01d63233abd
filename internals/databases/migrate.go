package database

import (
	"fmt"
	"log"

	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	classModel "attendance_backend/internals/features/roster/classes/model"
	noteModel "attendance_backend/internals/features/roster/notes/model"
	studentModel "attendance_backend/internals/features/roster/students/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	authModel "attendance_backend/internals/features/users/auth/model"
	userModel "attendance_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

// Models lists every table, parents before children.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&classModel.ClassModel{},
		&studentModel.StudentModel{},
		&noteModel.StudentNoteModel{},
		&scheduleModel.ScheduleEntryModel{},
		&sessionModel.AttendanceSessionModel{},
		&sessionModel.AttendanceRecordModel{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("[INFO] schema migrated")
	return nil
}
