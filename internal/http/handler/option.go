package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

// CreateOptions accepts one option or an array of them.
//
// @Summary Create option(s)
// @Tags option
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.OptionInput true "option, or an array of them"
// @Success 201 {object} model.Option
// @Router /api/option [post]
func CreateOptions(svc service.OptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ins, many, err := decodeOneOrMany[service.OptionInput](c)
		if err != nil {
			return respondError(c, err)
		}
		for _, in := range ins {
			if err := bodyID("question", in.QuestionID); err != nil {
				return respondError(c, err)
			}
		}
		if !many {
			o, err := svc.Create(c.UserContext(), middleware.UserID(c), ins[0])
			if err != nil {
				return respondError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(o)
		}
		opts, err := svc.CreateMany(c.UserContext(), middleware.UserID(c), ins)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(opts)
	}
}

// @Summary Get option
// @Tags option
// @Produce json
// @Security BearerAuth
// @Param id path string true "option id"
// @Success 200 {object} model.Option
// @Router /api/option/{id} [get]
func GetOption(svc service.OptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		o, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// @Summary Update option
// @Tags option
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "option id"
// @Param body body service.OptionPatch true "fields to change"
// @Success 200 {object} model.Option
// @Router /api/option/{id} [patch]
func UpdateOption(svc service.OptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, err)
		}
		var p service.OptionPatch
		if err := decodeBody(c, &p); err != nil {
			return respondError(c, err)
		}
		o, err := svc.Update(c.UserContext(), middleware.UserID(c), id, p)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// @Summary Delete option
// @Tags option
// @Security BearerAuth
// @Param id path string true "option id"
// @Success 204
// @Router /api/option/{id} [delete]
func DeleteOption(svc service.OptionService) fiber.Handler {
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
