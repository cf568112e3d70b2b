package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
	"surveyapi/internal/storage"
)

const (
	responsesSheet  = "Responses"
	statisticsSheet = "Statistics"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrStorageUnavailable = errors.New("object storage is not configured")

// Workbook is a rendered xlsx file.
type Workbook struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishedExport points at a workbook uploaded to object storage.
type PublishedExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders questionnaire responses as Excel workbooks.
type ExportService interface {
	Workbook(ctx context.Context, actorID, questionnaireID string) (*Workbook, error)

	// Publish uploads the workbook and returns a presigned download URL.
	Publish(ctx context.Context, actorID, questionnaireID string) (*PublishedExport, error)
}

type exportService struct {
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	logic          repository.LogicRelationRepository
	answers        repository.AnswerRepository
	store          storage.Storage
	expiry         time.Duration
	loc            *time.Location
	now            func() time.Time
}

// NewExportService builds an ExportService. store may be nil, in which case
// Publish fails with ErrStorageUnavailable.
func NewExportService(
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	answers repository.AnswerRepository,
	store storage.Storage,
	expiry time.Duration,
	loc *time.Location,
) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{
		questionnaires: questionnaires,
		questions:      questions,
		options:        options,
		logic:          logic,
		answers:        answers,
		store:          store,
		expiry:         expiry,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *exportService) Workbook(ctx context.Context, actorID, questionnaireID string) (*Workbook, error) {
	qn, err := ownedQuestionnaire(ctx, s.questionnaires, questionnaireID, actorID)
	if err != nil {
		return nil, err
	}
	data, err := loadReportData(ctx, s.questions, s.options, s.logic, s.answers, qn)
	if err != nil {
		return nil, err
	}
	buf, err := renderWorkbook(data, s.loc)
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return &Workbook{
		Filename:    fmt.Sprintf("questionnaire-%s.xlsx", qn.ID),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) Publish(ctx context.Context, actorID, questionnaireID string) (*PublishedExport, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	wb, err := s.Workbook(ctx, actorID, questionnaireID)
	if err != nil {
		return nil, err
	}
	key := storage.ExportKey(questionnaireID)
	obj, err := s.store.Put(ctx, key, bytes.NewReader(wb.Data), storage.PutOptions{
		Size:        int64(len(wb.Data)),
		ContentType: wb.ContentType,
		Metadata:    map[string]string{"questionnaire-id": questionnaireID},
	})
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.store.PresignGet(ctx, obj.Key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	return &PublishedExport{
		Key:       obj.Key,
		URL:       url,
		Size:      obj.Size,
		ExpiresAt: s.now().Add(s.expiry).UTC(),
	}, nil
}

// renderWorkbook writes a Responses sheet with one row per answer sheet and a
// Statistics sheet with option frequencies. Exams get a trailing score column.
func renderWorkbook(data *reportData, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", responsesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(statisticsSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeResponses(f, data, loc, bold); err != nil {
		return nil, err
	}
	if err := writeStatistics(f, computeStatistics(data), bold); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func writeResponses(f *excelize.File, data *reportData, loc *time.Location, bold int) error {
	questions := data.detail.Questions
	exam := data.detail.Type == model.TypeExam

	header := []any{"Sheet", "Respondent", "Started", "Submitted", "IP"}
	for _, q := range questions {
		header = append(header, fmt.Sprintf("%d. %s", q.Ordering, q.Title))
	}
	var scores map[string]float64
	if exam {
		header = append(header, "Score")
		report := computeExamScores(data)
		scores = make(map[string]float64, len(report.Sheets))
		for _, ss := range report.Sheets {
			scores[ss.SheetID] = ss.Total
		}
	}
	if err := f.SetSheetRow(responsesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(responsesSheet, 1, 1, bold); err != nil {
		return err
	}

	optionByID := make(map[string]model.Option)
	for _, q := range questions {
		for _, o := range q.Options {
			optionByID[o.ID] = o
		}
	}
	// cells[sheet][question] accumulates the rendered answers.
	cells := make(map[string]map[string][]string, len(data.sheets))
	for _, d := range data.details {
		if cells[d.SheetID] == nil {
			cells[d.SheetID] = make(map[string][]string)
		}
		cells[d.SheetID][d.QuestionID] = append(cells[d.SheetID][d.QuestionID], renderAnswer(optionByID[d.OptionID], d.Content))
	}

	for i, sh := range data.sheets {
		respondent := ""
		if sh.RespondentID != nil {
			respondent = *sh.RespondentID
		}
		row := []any{
			sh.ID,
			respondent,
			sh.StartedTime.In(loc).Format(time.DateTime),
			sh.ModifiedTime.In(loc).Format(time.DateTime),
			sh.IP,
		}
		for _, q := range questions {
			row = append(row, strings.Join(cells[sh.ID][q.ID], "; "))
		}
		if exam {
			row = append(row, scores[sh.ID])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(responsesSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// renderAnswer shows the option title, followed by any fill-in text.
func renderAnswer(o model.Option, content *string) string {
	if content == nil || *content == "" {
		return o.Title
	}
	if o.Title == "" || o.Title == blankTitle {
		return *content
	}
	return o.Title + ": " + *content
}

func writeStatistics(f *excelize.File, st *Statistics, bold int) error {
	header := []any{"Question", "Option", "Count", "Percentage"}
	if err := f.SetSheetRow(statisticsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(statisticsSheet, 1, 1, bold); err != nil {
		return err
	}
	summary := []any{"Total sheets", "", st.TotalSheets, ""}
	if err := f.SetSheetRow(statisticsSheet, "A2", &summary); err != nil {
		return err
	}

	row := 3
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(statisticsSheet, cell, &values)
	}
	for _, q := range st.Questions {
		if err := put([]any{q.Title, "(answered)", q.AnswerCount, ""}); err != nil {
			return err
		}
		if q.Type == model.QuestionCompletion {
			for _, text := range q.Texts {
				if err := put([]any{"", text, "", ""}); err != nil {
					return err
				}
			}
			continue
		}
		for _, o := range q.Options {
			if err := put([]any{"", o.Title, o.Count, fmt.Sprintf("%.2f%%", o.Percentage)}); err != nil {
				return err
			}
		}
		if q.Average != nil {
			if err := put([]any{"", "(average)", *q.Average, ""}); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(statisticsSheet, "A", "B", 32)
}
