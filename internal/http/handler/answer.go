package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

// SubmitAnswer stores an answer sheet. Anonymous submissions are allowed
// unless the questionnaire requires login.
//
// @Summary Submit answer sheet
// @Tags answer
// @Accept json
// @Produce json
// @Param body body service.SubmitInput true "answer sheet"
// @Success 201 {object} model.AnswerSheetDetail
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/answer [post]
func SubmitAnswer(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SubmitInput
		if err := decodeBody(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := bodyID("questionnaire", in.QuestionnaireID); err != nil {
			return respondError(c, err)
		}
		sheet, err := svc.Submit(c.UserContext(), middleware.UserID(c), c.IP(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sheet)
	}
}

// ListAnswers pages through the sheets of a questionnaire, newest first.
//
// @Summary List answer sheets
// @Tags answer
// @Produce json
// @Security BearerAuth
// @Param questionnaire query string true "questionnaire id"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.AnswerListResult
// @Router /api/answer [get]
func ListAnswers(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qid, err := queryID(c, "questionnaire")
		if err != nil {
			return respondError(c, err)
		}
		limit, offset, err := page(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), middleware.UserID(c), qid, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// @Summary Get answer sheet
// @Tags answer
// @Produce json
// @Security BearerAuth
// @Param id path string true "sheet id"
// @Success 200 {object} model.AnswerSheetDetail
// @Router /api/answer/{id} [get]
func GetAnswer(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		sheet, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(sheet)
	}
}

// @Summary Delete answer sheet
// @Tags answer
// @Security BearerAuth
// @Param id path string true "sheet id"
// @Success 204
// @Router /api/answer/{id} [delete]
func DeleteAnswer(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
