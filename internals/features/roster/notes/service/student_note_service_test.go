package service

import (
	"context"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	"attendance_backend/internals/features/roster/notes/dto"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/testdb"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*NoteService, uuid.UUID, uuid.UUID) {
	t.Helper()
	db := testdb.New(t)
	admin := testdb.User(t, db, "root", constants.RoleAdministrator)
	class := testdb.Class(t, db, "9-A")
	student := testdb.Student(t, db, class.ClassID, "Ali", "Veli", true)
	svc := &NoteService{
		DB:         db,
		BodyPolicy: helper.WordPolicy{MinWords: 3},
		Location:   time.UTC,
		Now:        func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) },
	}
	return svc, admin.ID, student.StudentID
}

func TestCreateNote(t *testing.T) {
	svc, adminID, studentID := newService(t)
	ctx := context.Background()

	out, err := svc.Create(ctx, studentID, adminID, dto.CreateNoteRequest{
		StudentNoteTitle: "Sick",
		StudentNoteBody:  "stayed home with flu",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.StudentNoteCategory != "general" || out.StudentNoteDate != "2024-03-04" || out.AuthorName != "root" {
		t.Fatalf("note = %+v", out)
	}

	tests := []struct {
		name  string
		req   dto.CreateNoteRequest
		field string
	}{
		{"short body", dto.CreateNoteRequest{StudentNoteTitle: "x", StudentNoteBody: "too short"}, "student_note_body"},
		{"bad category", dto.CreateNoteRequest{StudentNoteTitle: "x", StudentNoteBody: "one two three", StudentNoteCategory: "gossip"}, "student_note_category"},
		{"bad date", dto.CreateNoteRequest{StudentNoteTitle: "x", StudentNoteBody: "one two three", StudentNoteDate: "04.03.2024"}, "student_note_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, studentID, adminID, tt.req)
			if len(helper.ValidationFields(err)[tt.field]) == 0 || !helper.IsKind(err, helper.KindValidation) {
				t.Fatalf("err = %v, want validation on %s", err, tt.field)
			}
		})
	}

	if _, err := svc.Create(ctx, uuid.New(), adminID, dto.CreateNoteRequest{StudentNoteTitle: "x", StudentNoteBody: "one two three"}); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown student: err = %v", err)
	}
}

func TestListUpdateDeleteNotes(t *testing.T) {
	svc, adminID, studentID := newService(t)
	ctx := context.Background()

	for _, n := range []dto.CreateNoteRequest{
		{StudentNoteTitle: "Trip", StudentNoteBody: "family holiday to the coast", StudentNoteCategory: "holiday", StudentNoteDate: "2024-02-01"},
		{StudentNoteTitle: "Prize", StudentNoteBody: "won the science fair", StudentNoteCategory: "achievement", StudentNoteDate: "2024-03-01"},
	} {
		if _, err := svc.Create(ctx, studentID, adminID, n); err != nil {
			t.Fatalf("Create %s: %v", n.StudentNoteTitle, err)
		}
	}

	pg := helper.Params{Page: 1, PerPage: 10}
	rows, total, err := svc.List(ctx, studentID, "", pg)
	if err != nil || total != 2 || rows[0].StudentNoteTitle != "Prize" {
		t.Fatalf("list: total = %d, rows = %+v, err = %v", total, rows, err)
	}
	rows, total, err = svc.List(ctx, studentID, "holiday", pg)
	if err != nil || total != 1 || rows[0].StudentNoteTitle != "Trip" {
		t.Fatalf("category filter: total = %d, err = %v", total, err)
	}
	if _, _, err := svc.List(ctx, studentID, "gossip", pg); !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("unknown category: err = %v", err)
	}

	noteID := rows[0].StudentNoteID
	out, err := svc.Update(ctx, studentID, noteID, dto.UpdateNoteRequest{
		StudentNoteCategory: strPtr("General"),
		StudentNoteDate:     strPtr("2024-02-02"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.StudentNoteCategory != "general" || out.StudentNoteDate != "2024-02-02" {
		t.Fatalf("updated = %+v", out)
	}
	if _, err := svc.Update(ctx, studentID, noteID, dto.UpdateNoteRequest{StudentNoteBody: strPtr("nope")}); !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("short body update: err = %v", err)
	}
	if _, err := svc.Get(ctx, uuid.New(), noteID); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("note under another student: err = %v", err)
	}

	if err := svc.Delete(ctx, studentID, noteID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, studentID, noteID); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}
