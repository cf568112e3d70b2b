package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts answer submissions by outcome.
type Metrics struct {
	submissions *prometheus.CounterVec
}

// NewMetrics registers the submission counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_submissions_total",
				Help: "Answer sheet submissions by result.",
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.submissions); err != nil {
		return nil, err
	}
	return m, nil
}

var submissionResults = []struct {
	err   error
	label string
}{
	{ErrNotFound, "not_found"},
	{ErrNotAccepting, "not_accepting"},
	{ErrWrongPassword, "wrong_password"},
	{ErrUnauthenticated, "login_required"},
	{ErrAlreadyAnswered, "already_answered"},
	{ErrAnswerLimit, "questionnaire_full"},
	{ErrQuestionFull, "question_full"},
	{ErrOptionFull, "option_full"},
	{ErrInvalidInput, "invalid"},
}

// submissionResult labels the outcome of a submission.
func submissionResult(err error) string {
	if err == nil {
		return "accepted"
	}
	for _, r := range submissionResults {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "error"
}

func (m *Metrics) observeSubmission(err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(submissionResult(err)).Inc()
}
