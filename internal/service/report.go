package service

import (
	"context"
	"math"
	"strings"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// OptionStat is the frequency of one option.
type OptionStat struct {
	OptionID   string  `json:"option"`
	Title      string  `json:"title"`
	Ordering   int     `json:"ordering"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionStat aggregates the answers to one question. Percentages are
// relative to AnswerCount, the number of sheets that answered the question.
type QuestionStat struct {
	QuestionID  string             `json:"question"`
	Title       string             `json:"title"`
	Type        model.QuestionType `json:"type"`
	Ordering    int                `json:"ordering"`
	AnswerCount int                `json:"answer_count"`
	Options     []OptionStat       `json:"option_list"`
	Texts       []string           `json:"texts,omitempty"`
	Average     *float64           `json:"average,omitempty"`
}

// Statistics is the per-question report of a questionnaire.
type Statistics struct {
	QuestionnaireID string         `json:"questionnaire"`
	Title           string         `json:"title"`
	TotalSheets     int            `json:"total_sheets"`
	Questions       []QuestionStat `json:"question_list"`
}

// CrossTableInput names the questions crossed against each other.
type CrossTableInput struct {
	XQuestions []string `json:"question_x_list"`
	YQuestions []string `json:"question_y_list"`
}

// OptionRef names an option in a cross table header.
type OptionRef struct {
	OptionID string `json:"option"`
	Title    string `json:"title"`
}

// CrossTable counts sheets choosing both an X and a Y option. Counts[i][j]
// pairs XOptions[i] with YOptions[j].
type CrossTable struct {
	XQuestion string      `json:"question_x"`
	YQuestion string      `json:"question_y"`
	XOptions  []OptionRef `json:"x_option_list"`
	YOptions  []OptionRef `json:"y_option_list"`
	Counts    [][]int     `json:"counts"`
	Total     int         `json:"total"`
}

// QuestionScore is what a sheet earned on one question.
type QuestionScore struct {
	QuestionID string  `json:"question"`
	Score      float64 `json:"score"`
}

// SheetScore is the exam result of one answer sheet.
type SheetScore struct {
	SheetID      string          `json:"sheet"`
	RespondentID *string         `json:"respondent"`
	Total        float64         `json:"total"`
	Questions    []QuestionScore `json:"question_score_list"`
}

// ScoreSummary describes the distribution of totals.
type ScoreSummary struct {
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
	FullMarks float64 `json:"full_marks"`
}

// ExamReport lists the score of every sheet of an exam.
type ExamReport struct {
	QuestionnaireID string       `json:"questionnaire"`
	Sheets          []SheetScore `json:"sheet_list"`
	Summary         ScoreSummary `json:"summary"`
}

// ReportService aggregates answers for questionnaire authors.
type ReportService interface {
	// Statistics is readable by the author, and by anyone when the questionnaire
	// is shared with is_show_result set.
	Statistics(ctx context.Context, actorID, questionnaireID string) (*Statistics, error)
	CrossTable(ctx context.Context, actorID, questionnaireID string, in CrossTableInput) ([]CrossTable, error)
	ExamScores(ctx context.Context, actorID, questionnaireID string) (*ExamReport, error)
}

type reportService struct {
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	logic          repository.LogicRelationRepository
	answers        repository.AnswerRepository
}

func NewReportService(
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	answers repository.AnswerRepository,
) ReportService {
	return &reportService{
		questionnaires: questionnaires,
		questions:      questions,
		options:        options,
		logic:          logic,
		answers:        answers,
	}
}

// reportData is everything a report is computed from.
type reportData struct {
	detail  *model.QuestionnaireDetail
	sheets  []model.AnswerSheet
	details []model.AnswerDetail
}

func loadReportData(
	ctx context.Context,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	answers repository.AnswerRepository,
	qn *model.Questionnaire,
) (*reportData, error) {
	d, err := loadDetail(ctx, questions, options, logic, qn)
	if err != nil {
		return nil, err
	}
	sheets, err := answers.ListAllSheets(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	details, err := answers.ListDetailsByQuestionnaire(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	return &reportData{detail: d, sheets: sheets, details: details}, nil
}

func (s *reportService) load(ctx context.Context, qn *model.Questionnaire) (*reportData, error) {
	return loadReportData(ctx, s.questions, s.options, s.logic, s.answers, qn)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *reportService) Statistics(ctx context.Context, actorID, questionnaireID string) (*Statistics, error) {
	if questionnaireID == "" {
		return nil, ErrIDRequired
	}
	qn, err := s.questionnaires.FindByID(ctx, questionnaireID)
	if err != nil {
		return nil, notFound(err)
	}
	public := qn.IsShowResult && qn.Status == model.StatusShared
	if !public {
		if actorID == "" {
			return nil, ErrUnauthenticated
		}
		if qn.AuthorID != actorID {
			return nil, ErrForbidden
		}
	}
	data, err := s.load(ctx, qn)
	if err != nil {
		return nil, err
	}
	return computeStatistics(data), nil
}

func computeStatistics(data *reportData) *Statistics {
	sheetsByQuestion := make(map[string]map[string]bool)
	sheetsByOption := make(map[string]map[string]bool)
	texts := make(map[string][]string)
	for _, d := range data.details {
		if sheetsByQuestion[d.QuestionID] == nil {
			sheetsByQuestion[d.QuestionID] = make(map[string]bool)
		}
		sheetsByQuestion[d.QuestionID][d.SheetID] = true
		if sheetsByOption[d.OptionID] == nil {
			sheetsByOption[d.OptionID] = make(map[string]bool)
		}
		sheetsByOption[d.OptionID][d.SheetID] = true
		if d.Content != nil && strings.TrimSpace(*d.Content) != "" {
			texts[d.QuestionID] = append(texts[d.QuestionID], *d.Content)
		}
	}

	out := &Statistics{
		QuestionnaireID: data.detail.ID,
		Title:           data.detail.Title,
		TotalSheets:     len(data.sheets),
		Questions:       make([]QuestionStat, 0, len(data.detail.Questions)),
	}
	for _, q := range data.detail.Questions {
		answered := len(sheetsByQuestion[q.ID])
		qs := QuestionStat{
			QuestionID:  q.ID,
			Title:       q.Title,
			Type:        q.Type,
			Ordering:    q.Ordering,
			AnswerCount: answered,
			Options:     make([]OptionStat, 0, len(q.Options)),
		}
		var weighted float64
		var picks int
		for _, o := range q.Options {
			n := len(sheetsByOption[o.ID])
			st := OptionStat{OptionID: o.ID, Title: o.Title, Ordering: o.Ordering, Count: n}
			if answered > 0 {
				st.Percentage = round2(float64(n) * 100 / float64(answered))
			}
			qs.Options = append(qs.Options, st)
			weighted += float64(n) * ratingOf(o)
			picks += n
		}
		if q.Type == model.QuestionCompletion {
			qs.Texts = texts[q.ID]
		}
		if q.Type == model.QuestionScoring && picks > 0 {
			avg := round2(weighted / float64(picks))
			qs.Average = &avg
		}
		out.Questions = append(out.Questions, qs)
	}
	return out
}

// ratingOf is the value of a scoring option: its score, else its ordering.
func ratingOf(o model.Option) float64 {
	if o.Score != nil {
		return *o.Score
	}
	return float64(o.Ordering)
}

func (s *reportService) CrossTable(ctx context.Context, actorID, questionnaireID string, in CrossTableInput) ([]CrossTable, error) {
	if len(in.XQuestions) == 0 || len(in.YQuestions) == 0 {
		return nil, invalidf("question_x_list and question_y_list are required")
	}
	qn, err := ownedQuestionnaire(ctx, s.questionnaires, questionnaireID, actorID)
	if err != nil {
		return nil, err
	}
	data, err := s.load(ctx, qn)
	if err != nil {
		return nil, err
	}
	return computeCrossTables(data, in)
}

func computeCrossTables(data *reportData, in CrossTableInput) ([]CrossTable, error) {
	byID := make(map[string]*model.QuestionDetail, len(data.detail.Questions))
	for i := range data.detail.Questions {
		byID[data.detail.Questions[i].ID] = &data.detail.Questions[i]
	}
	for _, id := range append(append([]string{}, in.XQuestions...), in.YQuestions...) {
		if _, ok := byID[id]; !ok {
			return nil, invalidf("question %q is not part of this questionnaire", id)
		}
	}

	// chosen[sheet][option]
	chosen := make(map[string]map[string]bool, len(data.sheets))
	for _, d := range data.details {
		if chosen[d.SheetID] == nil {
			chosen[d.SheetID] = make(map[string]bool)
		}
		chosen[d.SheetID][d.OptionID] = true
	}

	out := make([]CrossTable, 0, len(in.XQuestions)*len(in.YQuestions))
	for _, xid := range in.XQuestions {
		for _, yid := range in.YQuestions {
			x, y := byID[xid], byID[yid]
			ct := CrossTable{
				XQuestion: x.ID,
				YQuestion: y.ID,
				XOptions:  optionRefs(x.Options),
				YOptions:  optionRefs(y.Options),
				Counts:    make([][]int, len(x.Options)),
			}
			for i := range ct.Counts {
				ct.Counts[i] = make([]int, len(y.Options))
			}
			for _, picked := range chosen {
				both := false
				for i, xo := range x.Options {
					if !picked[xo.ID] {
						continue
					}
					for j, yo := range y.Options {
						if picked[yo.ID] {
							ct.Counts[i][j]++
							both = true
						}
					}
				}
				if both {
					ct.Total++
				}
			}
			out = append(out, ct)
		}
	}
	return out, nil
}

func optionRefs(opts []model.Option) []OptionRef {
	refs := make([]OptionRef, 0, len(opts))
	for _, o := range opts {
		refs = append(refs, OptionRef{OptionID: o.ID, Title: o.Title})
	}
	return refs
}

func (s *reportService) ExamScores(ctx context.Context, actorID, questionnaireID string) (*ExamReport, error) {
	qn, err := ownedQuestionnaire(ctx, s.questionnaires, questionnaireID, actorID)
	if err != nil {
		return nil, err
	}
	if qn.Type != model.TypeExam {
		return nil, ErrNotExam
	}
	data, err := s.load(ctx, qn)
	if err != nil {
		return nil, err
	}
	return computeExamScores(data), nil
}

// scorable reports whether q contributes to an exam score.
func scorable(q model.QuestionDetail) bool {
	switch q.Type {
	case model.QuestionSingleChoice, model.QuestionMultipleChoice:
		if !q.IsScoring || q.QuestionScore == nil {
			return false
		}
		for _, o := range q.Options {
			if o.IsAnswerChoice {
				return true
			}
		}
	case model.QuestionCompletion:
		for _, o := range q.Options {
			if o.Score != nil {
				return true
			}
		}
	}
	return false
}

// fullMarks is the highest score q can earn.
func fullMarks(q model.QuestionDetail) float64 {
	if q.Type == model.QuestionCompletion {
		var sum float64
		for _, o := range q.Options {
			if o.Score != nil {
				sum += *o.Score
			}
		}
		return sum
	}
	return float64(*q.QuestionScore)
}

// scoreQuestion grades one question of one sheet. picked maps chosen option
// IDs to their fill-in text.
func scoreQuestion(q model.QuestionDetail, picked map[string]string) float64 {
	if q.Type == model.QuestionCompletion {
		var sum float64
		for _, o := range q.Options {
			if o.Score == nil {
				continue
			}
			text, ok := picked[o.ID]
			if ok && strings.TrimSpace(text) == strings.TrimSpace(o.Answer) {
				sum += *o.Score
			}
		}
		return sum
	}
	for _, o := range q.Options {
		_, ok := picked[o.ID]
		if ok != o.IsAnswerChoice {
			return 0
		}
	}
	return float64(*q.QuestionScore)
}

func computeExamScores(data *reportData) *ExamReport {
	// picked[sheet][question][option] = content
	picked := make(map[string]map[string]map[string]string, len(data.sheets))
	for _, d := range data.details {
		if picked[d.SheetID] == nil {
			picked[d.SheetID] = make(map[string]map[string]string)
		}
		if picked[d.SheetID][d.QuestionID] == nil {
			picked[d.SheetID][d.QuestionID] = make(map[string]string)
		}
		var text string
		if d.Content != nil {
			text = *d.Content
		}
		picked[d.SheetID][d.QuestionID][d.OptionID] = text
	}

	scored := make([]model.QuestionDetail, 0, len(data.detail.Questions))
	var full float64
	for _, q := range data.detail.Questions {
		if scorable(q) {
			scored = append(scored, q)
			full += fullMarks(q)
		}
	}

	report := &ExamReport{
		QuestionnaireID: data.detail.ID,
		Sheets:          make([]SheetScore, 0, len(data.sheets)),
		Summary:         ScoreSummary{Count: len(data.sheets), FullMarks: round2(full)},
	}
	var sum float64
	for i, sh := range data.sheets {
		ss := SheetScore{
			SheetID:      sh.ID,
			RespondentID: sh.RespondentID,
			Questions:    make([]QuestionScore, 0, len(scored)),
		}
		for _, q := range scored {
			v := scoreQuestion(q, picked[sh.ID][q.ID])
			ss.Questions = append(ss.Questions, QuestionScore{QuestionID: q.ID, Score: v})
			ss.Total += v
		}
		ss.Total = round2(ss.Total)
		sum += ss.Total
		if i == 0 || ss.Total > report.Summary.Max {
			report.Summary.Max = ss.Total
		}
		if i == 0 || ss.Total < report.Summary.Min {
			report.Summary.Min = ss.Total
		}
		report.Sheets = append(report.Sheets, ss)
	}
	if len(data.sheets) > 0 {
		report.Summary.Average = round2(sum / float64(len(data.sheets)))
	}
	return report
}
