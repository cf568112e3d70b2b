package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type userUpdateRequest struct {
	Password string `json:"password"`
}

// ObtainToken exchanges credentials for an access and refresh token.
//
// @Summary Obtain tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "credentials"
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} errorPayload
// @Router /api/token [post]
func ObtainToken(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		pair, err := svc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pair)
	}
}

// RefreshToken issues a new access token.
//
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body refreshRequest true "refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errorPayload
// @Router /api/token/refresh [post]
func RefreshToken(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		access, err := svc.Refresh(c.UserContext(), req.Refresh)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"access": access})
	}
}

// RegisterUser creates an account.
//
// @Summary Register
// @Tags user
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "credentials"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/user [post]
func RegisterUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.Register(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// GetUser returns the public profile of a user.
//
// @Summary Get user
// @Tags user
// @Produce json
// @Param username path string true "username"
// @Success 200 {object} model.User
// @Failure 404 {object} errorPayload
// @Router /api/user/{username} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Get(c.UserContext(), c.Params("username"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateUser changes the caller's own password.
//
// @Summary Update user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "username"
// @Param body body userUpdateRequest true "new password"
// @Success 200 {object} model.User
// @Router /api/user/{username} [patch]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req userUpdateRequest
		if err := decodeBody(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.Update(c.UserContext(), middleware.UserID(c), c.Params("username"), req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// DeleteUser removes the caller's own account.
//
// @Summary Delete user
// @Tags user
// @Security BearerAuth
// @Param username path string true "username"
// @Success 204
// @Router /api/user/{username} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), c.Params("username")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListUserQuestionnaires lists the questionnaires a user has not deleted.
//
// @Summary List a user's questionnaires
// @Tags user
// @Produce json
// @Param username path string true "username"
// @Success 200 {array} model.QuestionnaireSummary
// @Router /api/user/{username}/questionnaire [get]
func ListUserQuestionnaires(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListQuestionnaires(c.UserContext(), c.Params("username"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}
}

// RecycleBin lists the caller's deleted questionnaires.
//
// @Summary Recycle bin
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param username path string true "username"
// @Success 200 {array} model.QuestionnaireSummary
// @Router /api/user/{username}/recycle [get]
func RecycleBin(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Recycle(c.UserContext(), middleware.UserID(c), c.Params("username"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}
}
