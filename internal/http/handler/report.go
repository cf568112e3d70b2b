package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

// GetStatistics reports option frequencies per question.
//
// @Summary Statistics
// @Tags report
// @Produce json
// @Param id path string true "questionnaire id"
// @Success 200 {object} service.Statistics
// @Router /api/questionnaire/{id}/statistics [get]
func GetStatistics(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		st, err := svc.Statistics(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(st)
	}
}

// GetCrossTable crosses every X question with every Y question.
//
// @Summary Cross tabulation
// @Tags report
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Param body body service.CrossTableInput true "questions to cross"
// @Success 200 {array} service.CrossTable
// @Router /api/questionnaire/{id}/cross-table [post]
func GetCrossTable(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var in service.CrossTableInput
		if err := decodeBody(c, &in); err != nil {
			return respondError(c, err)
		}
		tables, err := svc.CrossTable(c.UserContext(), middleware.UserID(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tables)
	}
}

// GetExamScores grades every sheet of an exam.
//
// @Summary Exam scores
// @Tags report
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Success 200 {object} service.ExamReport
// @Failure 400 {object} errorPayload
// @Router /api/questionnaire/{id}/scores [get]
func GetExamScores(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		r, err := svc.ExamScores(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(r)
	}
}

// DownloadExport streams the responses workbook.
//
// @Summary Download xlsx export
// @Tags report
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Success 200 {file} file
// @Router /api/questionnaire/{id}/export [get]
func DownloadExport(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		wb, err := svc.Workbook(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Attachment(wb.Filename)
		c.Set(fiber.HeaderContentType, wb.ContentType)
		return c.Send(wb.Data)
	}
}

// PublishExport uploads the workbook and returns a presigned link.
//
// @Summary Publish xlsx export
// @Tags report
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Success 201 {object} service.PublishedExport
// @Failure 503 {object} errorPayload
// @Router /api/questionnaire/{id}/export [post]
func PublishExport(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.Publish(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}
