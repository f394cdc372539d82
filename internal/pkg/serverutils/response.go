package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every non-2xx answer.
func ErrorResponse(code int, message string) Response {
	return Response{Code: code, Message: message}
}

// ErrorHandler renders errors returned by handlers. *fiber.Error keeps its
// status; anything else is a 500 with the error text.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
}
