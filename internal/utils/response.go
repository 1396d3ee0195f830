package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform response envelope. Results carries the item
// count on collection responses; Token is present on auth responses only.
type APIResponse struct {
	Status  string      `json:"status"`
	Token   string      `json:"token,omitempty"`
	Results *int64      `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

func CollectionResponse(c *gin.Context, data interface{}, total int64) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  StatusSuccess,
		Results: &total,
		Data:    data,
	})
}

func TokenResponse(c *gin.Context, statusCode int, token string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status: StatusSuccess,
		Token:  token,
		Data:   data,
	})
}

func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  StatusSuccess,
		Message: message,
	})
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
