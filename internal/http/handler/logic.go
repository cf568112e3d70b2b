package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

type logicRequest struct {
	QuestionID string `json:"question"`
	OptionID   string `json:"option"`
}

// CreateLogicRelation shows a question only once the option is chosen.
//
// @Summary Create logic relation
// @Tags logic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body logicRequest true "question and triggering option"
// @Success 201 {object} model.LogicRelation
// @Router /api/question_option_logic_relation [post]
func CreateLogicRelation(svc service.LogicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req logicRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := bodyID("question", req.QuestionID); err != nil {
			return respondError(c, err)
		}
		if err := bodyID("option", req.OptionID); err != nil {
			return respondError(c, err)
		}
		lr, err := svc.Create(c.UserContext(), middleware.UserID(c), req.QuestionID, req.OptionID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(lr)
	}
}

// @Summary List logic relations
// @Tags logic
// @Produce json
// @Security BearerAuth
// @Param questionnaire query string true "questionnaire id"
// @Success 200 {array} model.LogicRelation
// @Router /api/question_option_logic_relation [get]
func ListLogicRelations(svc service.LogicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qid, err := queryID(c, "questionnaire")
		if err != nil {
			return respondError(c, err)
		}
		items, err := svc.List(c.UserContext(), middleware.UserID(c), qid)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}
}

// @Summary Delete logic relation
// @Tags logic
// @Security BearerAuth
// @Param id path string true "relation id"
// @Success 204
// @Router /api/question_option_logic_relation/{id} [delete]
func DeleteLogicRelation(svc service.LogicService) fiber.Handler {
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
