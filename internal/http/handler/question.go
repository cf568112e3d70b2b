package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

type copyQuestionRequest struct {
	QuestionID string `json:"question"`
}

type optionOrderRequest struct {
	Options []string `json:"option_list"`
}

// CreateQuestions accepts one question or an array; an array is created in
// a single transaction and answered with an array.
//
// @Summary Create question(s)
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionInput true "question, or an array of them"
// @Success 201 {object} model.QuestionDetail
// @Failure 400 {object} errorPayload
// @Router /api/question [post]
func CreateQuestions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ins, many, err := decodeOneOrMany[service.QuestionInput](c)
		if err != nil {
			return respondError(c, err)
		}
		for _, in := range ins {
			if err := bodyID("questionnaire", in.QuestionnaireID); err != nil {
				return respondError(c, err)
			}
		}
		if !many {
			q, err := svc.Create(c.UserContext(), middleware.UserID(c), ins[0])
			if err != nil {
				return respondError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(q)
		}
		qs, err := svc.CreateMany(c.UserContext(), middleware.UserID(c), ins)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(qs)
	}
}

// CopyQuestion inserts a copy right after the source question.
//
// @Summary Copy question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body copyQuestionRequest true "source"
// @Success 201 {object} model.QuestionDetail
// @Router /api/question/copy [post]
func CopyQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req copyQuestionRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := bodyID("question", req.QuestionID); err != nil {
			return respondError(c, err)
		}
		q, err := svc.Copy(c.UserContext(), middleware.UserID(c), req.QuestionID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

// GetQuestion returns a question with its options.
//
// @Summary Get question
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} model.QuestionDetail
// @Router /api/question/{id} [get]
func GetQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		q, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(q)
	}
}

// UpdateQuestion applies a partial update; a new ordering swaps places.
//
// @Summary Update question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Param body body service.QuestionPatch true "fields to change"
// @Success 200 {object} model.Question
// @Router /api/question/{id} [patch]
func UpdateQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var p service.QuestionPatch
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

// DeleteQuestion removes a question and closes the ordering gap.
//
// @Summary Delete question
// @Tags question
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 204
// @Router /api/question/{id} [delete]
func DeleteQuestion(svc service.QuestionService) fiber.Handler {
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

// ReorderOptions renumbers a question's options in the given order.
//
// @Summary Reorder options
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Param body body optionOrderRequest true "every option id, in the new order"
// @Success 200 {array} model.Option
// @Router /api/question/{id}/option-order [put]
func ReorderOptions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var req optionOrderRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		opts, err := svc.ReorderOptions(c.UserContext(), middleware.UserID(c), id, req.Options)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(opts)
	}
}
