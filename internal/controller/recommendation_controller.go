package controller

import (
	"errors"

	"smart-product-be/internal/config"
	"smart-product-be/internal/dto"
	"smart-product-be/internal/pkg/serverutils"
	"smart-product-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Recommend(ctx *fiber.Ctx) error
}

type recommendationController struct {
	service service.IRecommendationService
}

func NewRecommendationController(service service.IRecommendationService) IRecommendationController {
	return &recommendationController{service: service}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
	r.Post("/recommend", c.Recommend)
}

func (c *recommendationController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:  "healthy",
		Message: config.AppTitle + " v" + config.AppVersion + " is running",
	})
}

func (c *recommendationController) Health(ctx *fiber.Ctx) error {
	if !c.service.Ready() {
		return fiber.NewError(fiber.StatusServiceUnavailable, service.ErrAgentNotInitialized.Error())
	}
	return ctx.JSON(dto.HealthResponse{
		Status:  "healthy",
		Message: "all systems operational",
	})
}

func (c *recommendationController) Recommend(ctx *fiber.Ctx) error {
	if !c.service.Ready() {
		return fiber.NewError(fiber.StatusServiceUnavailable, service.ErrAgentNotInitialized.Error())
	}

	var req dto.RecommendationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, service.ErrEmptyInput.Error())
	}
	if err := serverutils.ValidateRequest(req, map[string]string{
		"UserInput.notblank": service.ErrEmptyInput.Error(),
	}); err != nil {
		return err
	}

	res, err := c.service.GetRecommendation(ctx.UserContext(), req.UserInput)
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAgentNotInitialized):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "recommendation failed: "+err.Error())
	}

	return ctx.JSON(res)
}
