package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/services"
	"gotours/internal/utils"
)

type TourHandler struct {
	tourService services.TourService
}

func NewTourHandler(tourService services.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

func (h *TourHandler) List(c *gin.Context) {
	opts := utils.ParseQueryOptions(c)

	tours, total, err := h.tourService.List(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}

	utils.CollectionResponse(c, gin.H{"tours": tours}, total)
}

// TopCheap presets the list query to the five best-rated cheapest tours.
func (h *TourHandler) TopCheap(c *gin.Context) {
	query := c.Request.URL.Query()
	query.Set("limit", "5")
	query.Set("sort", "-ratings_average,price")
	c.Request.URL.RawQuery = query.Encode()

	h.List(c)
}

func (h *TourHandler) Get(c *gin.Context) {
	id, err := parseObjectID(c, "tourId")
	if err != nil {
		c.Error(err)
		return
	}

	tour, err := h.tourService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) Create(c *gin.Context) {
	var request services.CreateTourRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	tour, err := h.tourService.Create(c.Request.Context(), &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.CreatedResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) Update(c *gin.Context) {
	id, err := parseObjectID(c, "tourId")
	if err != nil {
		c.Error(err)
		return
	}

	var request services.UpdateTourRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	tour, err := h.tourService.Update(c.Request.Context(), id, &request)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) Delete(c *gin.Context) {
	id, err := parseObjectID(c, "tourId")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.tourService.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *TourHandler) Stats(c *gin.Context) {
	stats, err := h.tourService.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.Error(apperrors.BadRequest("Please provide a valid year"))
		return
	}

	plan, err := h.tourService.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SuccessResponse(c, gin.H{"plan": plan})
}
