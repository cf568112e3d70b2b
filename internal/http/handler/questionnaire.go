package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/model"
	"surveyapi/internal/service"
)

type createQuestionnaireRequest struct {
	service.QuestionnaireInput
	Template string `json:"template"`
}

type copyQuestionnaireRequest struct {
	QuestionnaireID string `json:"questionnaire"`
}

type statusRequest struct {
	Status model.QuestionnaireStatus `json:"status"`
}

type questionOrderRequest struct {
	Questions []string `json:"question_list"`
}

// ListQuestionnaires pages through questionnaires, optionally filtered by title.
//
// @Summary List questionnaires
// @Tags questionnaire
// @Produce json
// @Param search query string false "title contains"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.QuestionnaireListResult
// @Failure 400 {object} errorPayload
// @Router /api/questionnaire [get]
func ListQuestionnaires(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), c.Query("search"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// SortQuestionnaires lists questionnaires ordered by a whitelisted keyword.
//
// @Summary Sort questionnaires
// @Tags questionnaire
// @Produce json
// @Param keyword query string true "create_date, last_shared_date or answer_num, optionally prefixed by -"
// @Success 200 {object} service.QuestionnaireListResult
// @Router /api/questionnaire/sort [get]
func SortQuestionnaires(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.Sort(c.UserContext(), c.Query("keyword"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateQuestionnaire stores a questionnaire owned by the caller.
//
// @Summary Create questionnaire
// @Tags questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createQuestionnaireRequest true "questionnaire; template is vote, signup, exam or epidemic_check_in"
// @Success 201 {object} model.QuestionnaireDetail
// @Failure 400 {object} errorPayload
// @Router /api/questionnaire [post]
func CreateQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createQuestionnaireRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		d, err := svc.Create(c.UserContext(), middleware.UserID(c), req.QuestionnaireInput, req.Template)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// CopyQuestionnaire deep-copies a questionnaire.
//
// @Summary Copy questionnaire
// @Tags questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body copyQuestionnaireRequest true "source"
// @Success 201 {object} model.QuestionnaireDetail
// @Router /api/questionnaire/copy [post]
func CopyQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req copyQuestionnaireRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := bodyID("questionnaire", req.QuestionnaireID); err != nil {
			return respondError(c, err)
		}
		d, err := svc.Copy(c.UserContext(), middleware.UserID(c), req.QuestionnaireID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// GetQuestionnaire returns the full questionnaire to its author.
//
// @Summary Get questionnaire
// @Tags questionnaire
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Success 200 {object} model.QuestionnaireDetail
// @Failure 404 {object} errorPayload
// @Router /api/questionnaire/{id} [get]
func GetQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		d, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(d)
	}
}

// FillQuestionnaire returns the respondent view of a shared questionnaire.
//
// @Summary Fill questionnaire
// @Tags questionnaire
// @Produce json
// @Param id path string true "questionnaire id"
// @Param password query string false "fill password"
// @Success 200 {object} model.QuestionnaireDetail
// @Failure 403 {object} errorPayload
// @Router /api/questionnaire/{id}/fill [get]
func FillQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		d, err := svc.Fill(c.UserContext(), middleware.UserID(c), id, c.Query("password"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(d)
	}
}

// UpdateQuestionnaire applies a partial update. PUT and PATCH behave alike.
//
// @Summary Update questionnaire
// @Tags questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Param body body service.QuestionnairePatch true "fields to change"
// @Success 200 {object} model.Questionnaire
// @Router /api/questionnaire/{id} [patch]
func UpdateQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var p service.QuestionnairePatch
		if err := decodeBody(c, &p); err != nil {
			return respondError(c, err)
		}
		q, err := svc.Update(c.UserContext(), middleware.UserID(c), id, p)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(q)
	}
}

// DeleteQuestionnaire removes a questionnaire and everything under it.
//
// @Summary Delete questionnaire
// @Tags questionnaire
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Success 204
// @Router /api/questionnaire/{id} [delete]
func DeleteQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
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

// SetQuestionnaireStatus shares, closes or recycles a questionnaire.
//
// @Summary Change status
// @Tags questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Param body body statusRequest true "shared, closed or deleted"
// @Success 200 {object} model.Questionnaire
// @Router /api/questionnaire/{id}/status [put]
func SetQuestionnaireStatus(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var req statusRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		q, err := svc.SetStatus(c.UserContext(), middleware.UserID(c), id, req.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(q)
	}
}

// ReorderQuestions renumbers the questions in the given order.
//
// @Summary Reorder questions
// @Tags questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "questionnaire id"
// @Param body body questionOrderRequest true "every question id, in the new order"
// @Success 200 {array} model.Question
// @Router /api/questionnaire/{id}/question-order [put]
func ReorderQuestions(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var req questionOrderRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		qs, err := svc.ReorderQuestions(c.UserContext(), middleware.UserID(c), id, req.Questions)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(qs)
	}
}
