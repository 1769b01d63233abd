package service

import (
	"context"
	"errors"
	"time"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/features/roster/notes/dto"
	"attendance_backend/internals/features/roster/notes/model"
	studentService "attendance_backend/internals/features/roster/students/service"
	userModel "attendance_backend/internals/features/users/user/model"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteService struct {
	DB         *gorm.DB
	BodyPolicy helper.WordPolicy
	Location   *time.Location
	Now        dbtime.Clock
}

func NewNoteService(db *gorm.DB, cfg *configs.Config) *NoteService {
	return &NoteService{
		DB:         db,
		BodyPolicy: helper.WordPolicy{MinWords: cfg.NoteBodyMinWords},
		Location:   cfg.Location(),
		Now:        time.Now,
	}
}

func (s *NoteService) checkBody(body string) error {
	if msg := s.BodyPolicy.Check(body); msg != "" {
		return helper.Invalid("student_note_body", msg)
	}
	return nil
}

func (s *NoteService) noteDate(raw string) (time.Time, error) {
	if raw == "" {
		return dbtime.Today(s.Now, s.Location), nil
	}
	d, err := dbtime.ParseDate(raw)
	if err != nil {
		return time.Time{}, helper.Invalid("student_note_date", err.Error())
	}
	return d, nil
}

func (s *NoteService) authorNames(db *gorm.DB, notes []model.StudentNoteModel) (map[uuid.UUID]string, error) {
	ids := []uuid.UUID{}
	for _, n := range notes {
		if n.StudentNoteAuthorID != nil {
			ids = append(ids, *n.StudentNoteAuthorID)
		}
	}
	out := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var users []userModel.UserModel
	if err := db.Select("id, user_name, full_name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.DisplayName()
	}
	return out, nil
}

func (s *NoteService) respond(db *gorm.DB, notes []model.StudentNoteModel) ([]dto.NoteResponse, error) {
	names, err := s.authorNames(db, notes)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		name := ""
		if n.StudentNoteAuthorID != nil {
			name = names[*n.StudentNoteAuthorID]
		}
		out = append(out, dto.ToNoteResponse(n, name))
	}
	return out, nil
}

// List returns the student's notes, newest first. category may be empty.
func (s *NoteService) List(ctx context.Context, studentID uuid.UUID, category string, pg helper.Params) ([]dto.NoteResponse, int64, error) {
	db := s.DB.WithContext(ctx)
	if err := studentService.Exists(ctx, db, studentID); err != nil {
		return nil, 0, err
	}
	q := db.Model(&model.StudentNoteModel{}).Where("student_note_student_id = ?", studentID)
	if category != "" {
		if !model.NoteCategory(category).Valid() {
			return nil, 0, helper.Invalid("category", "unknown note category")
		}
		q = q.Where("student_note_category = ?", category)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var notes []model.StudentNoteModel
	if err := q.Order("student_note_date DESC").Order("student_note_created_at DESC").
		Limit(pg.Limit()).Offset(pg.Offset()).
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.respond(db, notes)
	return out, total, err
}

func (s *NoteService) load(db *gorm.DB, studentID, noteID uuid.UUID) (*model.StudentNoteModel, error) {
	var m model.StudentNoteModel
	if err := db.Where("student_note_id = ? AND student_note_student_id = ?", noteID, studentID).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("note not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *NoteService) Get(ctx context.Context, studentID, noteID uuid.UUID) (*dto.NoteResponse, error) {
	db := s.DB.WithContext(ctx)
	m, err := s.load(db, studentID, noteID)
	if err != nil {
		return nil, err
	}
	out, err := s.respond(db, []model.StudentNoteModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Create files a note on the student, authored by authorID.
func (s *NoteService) Create(ctx context.Context, studentID, authorID uuid.UUID, req dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if err := studentService.Exists(ctx, db, studentID); err != nil {
		return nil, err
	}
	if err := s.checkBody(req.StudentNoteBody); err != nil {
		return nil, err
	}
	category := model.NoteCategory(req.StudentNoteCategory)
	if category == "" {
		category = model.NoteGeneral
	}
	if !category.Valid() {
		return nil, helper.Invalid("student_note_category", "unknown note category")
	}
	date, err := s.noteDate(req.StudentNoteDate)
	if err != nil {
		return nil, err
	}

	m := model.StudentNoteModel{
		StudentNoteStudentID: studentID,
		StudentNoteCategory:  category,
		StudentNoteTitle:     req.StudentNoteTitle,
		StudentNoteBody:      req.StudentNoteBody,
		StudentNoteDate:      dbtime.ToDate(date),
	}
	if authorID != uuid.Nil {
		m.StudentNoteAuthorID = &authorID
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, studentID, m.StudentNoteID)
}

func (s *NoteService) Update(ctx context.Context, studentID, noteID uuid.UUID, req dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	req.Normalize()
	db := s.DB.WithContext(ctx)
	if _, err := s.load(db, studentID, noteID); err != nil {
		return nil, err
	}

	up := map[string]any{}
	if req.StudentNoteCategory != nil {
		c := model.NoteCategory(*req.StudentNoteCategory)
		if !c.Valid() {
			return nil, helper.Invalid("student_note_category", "unknown note category")
		}
		up["student_note_category"] = c
	}
	if req.StudentNoteTitle != nil {
		up["student_note_title"] = *req.StudentNoteTitle
	}
	if req.StudentNoteBody != nil {
		if err := s.checkBody(*req.StudentNoteBody); err != nil {
			return nil, err
		}
		up["student_note_body"] = *req.StudentNoteBody
	}
	if req.StudentNoteDate != nil {
		d, err := s.noteDate(*req.StudentNoteDate)
		if err != nil {
			return nil, err
		}
		up["student_note_date"] = dbtime.ToDate(d)
	}
	if len(up) > 0 {
		if err := db.Model(&model.StudentNoteModel{}).Where("student_note_id = ?", noteID).Updates(up).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, studentID, noteID)
}

func (s *NoteService) Delete(ctx context.Context, studentID, noteID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("student_note_id = ? AND student_note_student_id = ?", noteID, studentID).
		Delete(&model.StudentNoteModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("note not found")
	}
	return nil
}
