package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/middleware"
	"gotours/internal/services"
	"gotours/internal/utils"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List serves both the flat /reviews collection and the nested
// /tours/:tourId/reviews form, which narrows the filter to one tour.
func (h *ReviewHandler) List(c *gin.Context) {
	opts := utils.ParseQueryOptions(c)

	if tourParam := c.Param("tourId"); tourParam != "" {
		tourID, err := primitive.ObjectIDFromHex(tourParam)
		if err != nil {
			c.Error(err)
			return
		}
		opts.Filter["tour"] = tourID
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}

	utils.CollectionResponse(c, gin.H{"reviews": reviews}, total)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"review": review})
}

// Create fills the tour from the nested route parameter when the body leaves
// it out; the author always comes from the authenticated principal.
func (h *ReviewHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	if request.Tour.IsZero() {
		if tourParam := c.Param("tourId"); tourParam != "" {
			tourID, err := primitive.ObjectIDFromHex(tourParam)
			if err != nil {
				c.Error(err)
				return
			}
			request.Tour = tourID
		}
	}

	review, err := h.reviewService.Create(c.Request.Context(), principal, &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.CreatedResponse(c, gin.H{"review": review})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var request services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), principal, id, &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"review": review})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), principal, id); err != nil {
		c.Error(err)
		return
	}

	utils.NoContentResponse(c)
}
