package service

import (
	"context"
	"errors"
	"time"

	"attendance_backend/internals/features/roster/classes/dto"
	"attendance_backend/internals/features/roster/classes/model"
	helper "attendance_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassService struct {
	DB *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{DB: db}
}

// ClassRow is a class with its enrolment counts.
type ClassRow struct {
	ClassID            uuid.UUID `json:"class_id"`
	ClassName          string    `json:"class_name"`
	ClassDescription   string    `json:"class_description,omitempty"`
	ClassCreatedAt     time.Time `json:"class_created_at"`
	ClassUpdatedAt     time.Time `json:"class_updated_at"`
	StudentCount       int64     `json:"student_count"`
	ActiveStudentCount int64     `json:"active_student_count"`
}

func (s *ClassService) rows(db *gorm.DB) *gorm.DB {
	return db.Table("classes AS c").
		Select(`c.class_id, c.class_name, c.class_description, c.class_created_at, c.class_updated_at,
			(SELECT COUNT(*) FROM students st WHERE st.student_class_id = c.class_id) AS student_count,
			(SELECT COUNT(*) FROM students st WHERE st.student_class_id = c.class_id
				AND st.student_is_active = ?) AS active_student_count`, true)
}

// List returns classes ordered by name. q matches the class name.
func (s *ClassService) List(ctx context.Context, q string, pg helper.Params) ([]ClassRow, int64, error) {
	db := s.DB.WithContext(ctx)

	term := helper.SearchTerm(q)
	base := db.Model(&model.ClassModel{})
	if term != "" {
		base = base.Where("LOWER(class_name) LIKE ?", term)
	}
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := s.rows(db)
	if term != "" {
		list = list.Where("LOWER(c.class_name) LIKE ?", term)
	}
	out := []ClassRow{}
	if err := list.Order("c.class_name ASC").
		Limit(pg.Limit()).Offset(pg.Offset()).
		Scan(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*ClassRow, error) {
	var out ClassRow
	res := s.rows(s.DB.WithContext(ctx)).Where("c.class_id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, helper.NotFound("class not found")
	}
	return &out, nil
}

func (s *ClassService) nameTaken(db *gorm.DB, name string, excludeID uuid.UUID) error {
	var n int64
	if err := db.Model(&model.ClassModel{}).
		Where("LOWER(class_name) = LOWER(?) AND class_id <> ?", name, excludeID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.Invalid("class_name", "a class with this name already exists")
	}
	return nil
}

func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*ClassRow, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if err := s.nameTaken(db, req.ClassName, uuid.Nil); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if err := db.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Invalid("class_name", "a class with this name already exists")
		}
		return nil, err
	}
	return s.Get(ctx, m.ClassID)
}

func (s *ClassService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClassRequest) (*ClassRow, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.ClassName != nil {
		if err := s.nameTaken(db, *req.ClassName, id); err != nil {
			return nil, err
		}
	}
	if up := req.ToUpdates(); len(up) > 0 {
		if err := db.Model(&model.ClassModel{}).Where("class_id = ?", id).Updates(up).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.Invalid("class_name", "a class with this name already exists")
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the class. Students, schedule entries and sessions of the
// class go with it.
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.ClassModel{}, "class_id = ?", id)
	if res.Error != nil {
		if helper.IsForeignKeyViolation(res.Error) {
			return helper.Invalid("class_id", "class is still referenced")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("class not found")
	}
	return nil
}

// Exists validates a class reference. A missing class is reported under
// field, the caller's request key.
func Exists(ctx context.Context, db *gorm.DB, id uuid.UUID, field string) error {
	var m model.ClassModel
	if err := db.WithContext(ctx).Select("class_id").Where("class_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Invalid(field, "class does not exist")
		}
		return err
	}
	return nil
}
