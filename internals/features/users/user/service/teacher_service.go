package service

import (
	"context"
	"errors"
	"log"

	"attendance_backend/internals/constants"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	scheduleModel "attendance_backend/internals/features/schedules/model"
	authHelper "attendance_backend/internals/features/users/auth/helper"
	"attendance_backend/internals/features/users/user/dto"
	"attendance_backend/internals/features/users/user/model"
	helper "attendance_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeacherService manages accounts with the teacher role.
type TeacherService struct {
	DB *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{DB: db}
}

type TeacherFilter struct {
	Q        string
	IsActive *bool
}

func (s *TeacherService) scheduleCounts(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		TeacherID uuid.UUID
		N         int64
	}
	if err := db.Model(&scheduleModel.ScheduleEntryModel{}).
		Select("schedule_teacher_id AS teacher_id, COUNT(*) AS n").
		Where("schedule_teacher_id IN ?", ids).
		Group("schedule_teacher_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TeacherID] = r.N
	}
	return out, nil
}

// List returns teachers ordered by full name.
func (s *TeacherService) List(ctx context.Context, f TeacherFilter, pg helper.Params) ([]dto.TeacherResponse, int64, error) {
	db := s.DB.WithContext(ctx)
	q := db.Model(&model.UserModel{}).Where("role = ?", constants.RoleTeacher)
	if term := helper.SearchTerm(f.Q); term != "" {
		q = q.Where("(LOWER(user_name) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?)", term, term, term)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.UserModel
	if err := q.Order(pg.OrderClause(map[string]string{
		"full_name":  "full_name",
		"user_name":  "user_name",
		"created_at": "created_at",
	}, "full_name")).
		Limit(pg.Limit()).Offset(pg.Offset()).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.scheduleCounts(db, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TeacherResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToTeacherResponse(u, counts[u.ID]))
	}
	return out, total, nil
}

func (s *TeacherService) load(db *gorm.DB, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := db.Where("id = ? AND role = ?", id, constants.RoleTeacher).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("teacher not found")
		}
		return nil, err
	}
	return &u, nil
}

func (s *TeacherService) Get(ctx context.Context, id uuid.UUID) (*dto.TeacherResponse, error) {
	db := s.DB.WithContext(ctx)
	u, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.scheduleCounts(db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	out := dto.ToTeacherResponse(*u, counts[id])
	return &out, nil
}

// conflict reports which unique field of users is already taken.
func conflict(db *gorm.DB, excludeID uuid.UUID, userName string, email *string) error {
	var n int64
	if userName != "" {
		if err := db.Model(&model.UserModel{}).
			Where("user_name = ? AND id <> ?", userName, excludeID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Invalid("user_name", "username is already taken")
		}
	}
	if email != nil && *email != "" {
		if err := db.Model(&model.UserModel{}).
			Where("LOWER(email) = LOWER(?) AND id <> ?", *email, excludeID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Invalid("email", "email is already in use")
		}
	}
	return nil
}

// Create adds a teacher. The role is always teacher regardless of input.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	req.Normalize()
	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	m := req.ToModel()
	m.Password = hash

	db := s.DB.WithContext(ctx)
	if err := conflict(db, uuid.Nil, m.UserName, m.Email); err != nil {
		return nil, err
	}
	if err := db.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Invalid("user_name", "username or email is already in use")
		}
		return nil, err
	}
	log.Printf("[INFO] teacher created user_name=%s", m.UserName)
	out := dto.ToTeacherResponse(*m, 0)
	return &out, nil
}

func (s *TeacherService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if _, err := s.load(db, id); err != nil {
		return nil, err
	}

	userName := ""
	if req.UserName != nil {
		userName = *req.UserName
	}
	if err := conflict(db, id, userName, req.Email); err != nil {
		return nil, err
	}

	up := req.ToUpdates()
	if req.Password != nil {
		hash, err := authHelper.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		up["password"] = hash
	}
	if len(up) > 0 {
		if err := db.Model(&model.UserModel{}).Where("id = ?", id).Updates(up).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.Invalid("user_name", "username or email is already in use")
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// SetActive toggles the account; inactive teachers cannot log in.
func (s *TeacherService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.TeacherResponse, error) {
	db := s.DB.WithContext(ctx)
	if _, err := s.load(db, id); err != nil {
		return nil, err
	}
	if err := db.Model(&model.UserModel{}).Where("id = ?", id).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a teacher that owns no sessions or schedule entries.
func (s *TeacherService) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.DB.WithContext(ctx)
	u, err := s.load(db, id)
	if err != nil {
		return err
	}

	var sessions, schedules int64
	if err := db.Model(&sessionModel.AttendanceSessionModel{}).
		Where("attendance_session_teacher_id = ?", id).Count(&sessions).Error; err != nil {
		return err
	}
	if err := db.Model(&scheduleModel.ScheduleEntryModel{}).
		Where("schedule_teacher_id = ?", id).Count(&schedules).Error; err != nil {
		return err
	}
	if sessions > 0 || schedules > 0 {
		return helper.Invalid("id", "teacher still owns attendance sessions or schedule entries; deactivate the account instead")
	}

	if err := db.Delete(&model.UserModel{}, "id = ?", id).Error; err != nil {
		if helper.IsForeignKeyViolation(err) {
			return helper.Invalid("id", "teacher is still referenced by other records")
		}
		return err
	}
	log.Printf("[INFO] teacher deleted user_name=%s", u.UserName)
	return nil
}
