package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/middleware"
	"gotours/internal/services"
	"gotours/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), principal.ID)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var request services.UpdateMeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), principal.ID, &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	if err := h.userService.DeleteMe(c.Request.Context(), principal.ID); err != nil {
		c.Error(err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *UserHandler) List(c *gin.Context) {
	opts := utils.ParseQueryOptions(c)

	users, total, err := h.userService.List(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}

	utils.CollectionResponse(c, gin.H{"users": users}, total)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// Create exists only to point API users at the signup flow.
func (h *UserHandler) Create(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, utils.APIResponse{
		Status:  utils.StatusError,
		Message: "This route is not defined. Please use /signup instead",
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var request services.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, err := h.userService.AdminUpdate(c.Request.Context(), id, &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.userService.AdminDelete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	utils.NoContentResponse(c)
}

// parseID reads the :id path parameter as an ObjectID. The raw hex error is
// passed through so the translator renders the invalid-ID message.
func parseID(c *gin.Context) (primitive.ObjectID, error) {
	return parseObjectID(c, "id")
}

func parseObjectID(c *gin.Context, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param(name))
}
