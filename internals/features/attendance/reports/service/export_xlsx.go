package service

import (
	"context"
	"fmt"

	"attendance_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	sessionsSheet = "Sessions"
)

var summaryHeaders = []string{"Student", "National ID", "Present", "Absent", "Excused", "Late", "Total", "Absence rate %"}
var sessionHeaders = []string{"Date", "Lesson", "Teacher", "Topic"}

// ExportClassReport renders ClassReport as an xlsx workbook.
func (s *Service) ExportClassReport(ctx context.Context, classID uuid.UUID, r DateRange) (*excelize.File, *ClassReport, error) {
	rep, err := s.ClassReport(ctx, classID, r)
	if err != nil {
		return nil, nil, err
	}
	f, err := ClassReportWorkbook(rep)
	if err != nil {
		return nil, nil, err
	}
	return f, rep, nil
}

// ClassReportWorkbook lays out a summary sheet (one row per student) and a
// sessions sheet.
func ClassReportWorkbook(rep *ClassReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sessionsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	writeHeader := func(sheet string, headers []string) error {
		for i, h := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		return f.SetCellStyle(sheet, "A1", last, bold)
	}

	if err := writeHeader(summarySheet, summaryHeaders); err != nil {
		return nil, err
	}
	for i, st := range rep.Students {
		row := []any{
			st.FullName, st.NationalID,
			st.Counts.Present, st.Counts.Absent, st.Counts.Excused, st.Counts.Late, st.Counts.Total,
			st.AbsenceRate,
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 30)
	_ = f.SetColWidth(summarySheet, "B", "B", 16)

	if err := writeHeader(sessionsSheet, sessionHeaders); err != nil {
		return nil, err
	}
	for i, se := range rep.Sessions {
		row := []any{
			se.AttendanceSessionDate.Format(dbtime.DateLayout),
			se.ScheduleLessonName,
			se.TeacherName,
			se.AttendanceSessionTopic,
		}
		if err := f.SetSheetRow(sessionsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sessionsSheet, "B", "D", 28)

	return f, nil
}
