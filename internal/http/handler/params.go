package handler

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// requestError is a malformed request detected before reaching a service.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{code: code, message: message}
}

// pathID reads the :id parameter, which must be a UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "invalid id format")
	}
	return id, nil
}

// queryID reads a UUID from the named query parameter.
func queryID(c *fiber.Ctx, name string) (string, error) {
	id := c.Query(name)
	if id == "" {
		return "", badRequest("ID_REQUIRED", name+" is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "invalid "+name+" id format")
	}
	return id, nil
}

// bodyID checks an id sent in the request body. An empty id is passed on so
// the service can report it as missing.
func bodyID(field, id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return badRequest("INVALID_ID", "invalid "+field+" id format")
	}
	return nil
}

// page reads limit and offset from the query string.
func page(c *fiber.Ctx) (limit, offset int, err error) {
	if limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil {
		return 0, 0, badRequest("INVALID_LIMIT", "invalid limit")
	}
	if offset, err = strconv.Atoi(c.Query("offset", "0")); err != nil {
		return 0, 0, badRequest("INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

// decodeBody unmarshals the JSON request body into v with the app's decoder.
func decodeBody(c *fiber.Ctx, v any) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return badRequest("INVALID_BODY", "request body is required")
	}
	if err := c.App().Config().JSONDecoder(c.Body(), v); err != nil {
		return badRequest("INVALID_BODY", "malformed JSON body")
	}
	return nil
}

// decodeOneOrMany accepts either a JSON object or a non-empty array of
// objects; many reports which form was sent.
func decodeOneOrMany[T any](c *fiber.Ctx) (items []T, many bool, err error) {
	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && body[0] == '[' {
		if err := decodeBody(c, &items); err != nil {
			return nil, true, err
		}
		if len(items) == 0 {
			return nil, true, badRequest("INVALID_BODY", "at least one item is required")
		}
		return items, true, nil
	}
	var one T
	if err := decodeBody(c, &one); err != nil {
		return nil, false, err
	}
	return []T{one}, false, nil
}
