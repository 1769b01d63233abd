package service

import (
	"context"
	"errors"
	"log"

	classModel "attendance_backend/internals/features/roster/classes/model"
	classService "attendance_backend/internals/features/roster/classes/service"
	"attendance_backend/internals/features/roster/students/dto"
	"attendance_backend/internals/features/roster/students/model"
	helper "attendance_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentService struct {
	DB *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db}
}

type StudentFilter struct {
	ClassID  *uuid.UUID
	IsActive *bool
	Q        string
}

func (f StudentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ClassID != nil {
		q = q.Where("student_class_id = ?", *f.ClassID)
	}
	if f.IsActive != nil {
		q = q.Where("student_is_active = ?", *f.IsActive)
	}
	if term := helper.SearchTerm(f.Q); term != "" {
		q = q.Where("(LOWER(student_first_name) LIKE ? OR LOWER(student_last_name) LIKE ? OR student_national_id LIKE ?)", term, term, term)
	}
	return q
}

func (s *StudentService) classNames(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var classes []classModel.ClassModel
	if err := db.Select("class_id, class_name").Where("class_id IN ?", ids).Find(&classes).Error; err != nil {
		return nil, err
	}
	for _, c := range classes {
		out[c.ClassID] = c.ClassName
	}
	return out, nil
}

func (s *StudentService) respond(db *gorm.DB, rows []model.StudentModel) ([]dto.StudentResponse, error) {
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{}
	for _, r := range rows {
		if !seen[r.StudentClassID] {
			seen[r.StudentClassID] = true
			ids = append(ids, r.StudentClassID)
		}
	}
	names, err := s.classNames(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToStudentResponse(r, names[r.StudentClassID]))
	}
	return out, nil
}

// List orders by last then first name unless sort_by says otherwise.
func (s *StudentService) List(ctx context.Context, f StudentFilter, pg helper.Params) ([]dto.StudentResponse, int64, error) {
	db := s.DB.WithContext(ctx)
	q := f.apply(db.Model(&model.StudentModel{}))

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := pg.OrderClause(map[string]string{
		"last_name":   "student_last_name",
		"first_name":  "student_first_name",
		"national_id": "student_national_id",
		"enrolled_at": "student_enrolled_at",
	}, "last_name")
	var rows []model.StudentModel
	if err := q.Order(order).Order("student_first_name ASC").
		Limit(pg.Limit()).Offset(pg.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.respond(db, rows)
	return out, total, err
}

func (s *StudentService) load(db *gorm.DB, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := db.Where("student_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("student not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*dto.StudentResponse, error) {
	db := s.DB.WithContext(ctx)
	m, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	out, err := s.respond(db, []model.StudentModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func nationalIDTaken(db *gorm.DB, nationalID string, excludeID uuid.UUID) error {
	var n int64
	if err := db.Model(&model.StudentModel{}).
		Where("student_national_id = ? AND student_id <> ?", nationalID, excludeID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.Invalid("student_national_id", "a student with this national id already exists")
	}
	return nil
}

func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	req.Normalize()
	m, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := classService.Exists(ctx, db, m.StudentClassID, "student_class_id"); err != nil {
		return nil, err
	}
	if err := nationalIDTaken(db, m.StudentNationalID, uuid.Nil); err != nil {
		return nil, err
	}
	if err := db.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Invalid("student_national_id", "a student with this national id already exists")
		}
		return nil, err
	}
	log.Printf("[INFO] student created id=%s class=%s", m.StudentID, m.StudentClassID)
	return s.Get(ctx, m.StudentID)
}

func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if _, err := s.load(db, id); err != nil {
		return nil, err
	}
	up, err := req.ToUpdates()
	if err != nil {
		return nil, err
	}
	if req.StudentClassID != nil {
		if err := classService.Exists(ctx, db, *req.StudentClassID, "student_class_id"); err != nil {
			return nil, err
		}
	}
	if req.StudentNationalID != nil {
		if err := nationalIDTaken(db, *req.StudentNationalID, id); err != nil {
			return nil, err
		}
	}
	if len(up) > 0 {
		if err := db.Model(&model.StudentModel{}).Where("student_id = ?", id).Updates(up).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.Invalid("student_national_id", "a student with this national id already exists")
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the student with their attendance records and notes.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.StudentModel{}, "student_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("student not found")
	}
	return nil
}

// Exists is used by the notes service to validate the owning student.
func Exists(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.StudentModel{}).Where("student_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NotFound("student not found")
	}
	return nil
}
