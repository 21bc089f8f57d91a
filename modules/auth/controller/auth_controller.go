package controller

import (
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/auth/dto"
	"meetly/modules/auth/service"
)

// AuthController handles authentication HTTP requests.
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// Register handles POST /auth/register
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.AuthService.Register(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "account created successfully")
}

// Login handles POST /auth/login
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "logged in successfully")
}

// Logout handles POST /auth/logout
func (c *AuthController) Logout(ctx echo.Context) error {
	token := middleware.GetAccessToken(ctx)
	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "logged out successfully")
}

// GetProfile handles GET /auth/profile
func (c *AuthController) GetProfile(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.AuthService.GetProfile(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "profile fetched successfully")
}

// UpdateProfile handles PUT /auth/profile
func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.AuthService.UpdateProfile(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "profile updated successfully")
}

// UploadProfileImage handles POST /auth/profile/image
func (c *AuthController) UploadProfileImage(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "could not read image file")
	}
	defer file.Close()

	result, appErr := c.AuthService.UploadProfileImage(
		ctx.Request().Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "profile image updated")
}
