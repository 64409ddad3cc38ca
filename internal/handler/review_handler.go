package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/handler/middleware"
	"Gourmet-App/internal/usecase"
)

// ReviewHandler はユーザーレビューAPIのハンドラー
type ReviewHandler struct {
	useCase usecase.RestaurantUseCase
}

func NewReviewHandler(useCase usecase.RestaurantUseCase) *ReviewHandler {
	return &ReviewHandler{
		useCase: useCase,
	}
}

// AddReview POST /api/reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var input model.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	result := h.useCase.AddReview(c.Request.Context(), middleware.SessionKeyFromContext(c), middleware.AuthFromContext(c), input)
	if !result.OK {
		respondError(c, result.Err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DeleteReview DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.useCase.DeleteReview(c.Request.Context(), middleware.SessionKeyFromContext(c), middleware.AuthFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMyReviews GET /api/users/me/reviews
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	reviews, err := h.useCase.ListMyReviews(c.Request.Context(), middleware.SessionKeyFromContext(c), middleware.AuthFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
