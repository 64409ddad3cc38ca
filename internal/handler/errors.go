package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
)

// respondError ドメインのエラーをHTTPステータスに変換して返す
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError

	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not-authenticated", "details": "ログインが必要です"})
	case errors.Is(err, model.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-rating", "details": "評価は1から5の範囲で指定してください"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "バリデーションエラー", "details": validationErr.Error()})
	case errors.Is(err, model.ErrNoPosition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "location-error", "details": "現在地が取得できていません"})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "details": err.Error()})
	case errors.Is(err, model.NotFoundError{}):
		c.JSON(http.StatusNotFound, gin.H{"error": "not-found", "details": err.Error()})
	case errors.Is(err, model.ErrCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded", "details": "新しいリクエストにより中断されました"})
	case errors.Is(err, model.ErrPersistence):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ 保存処理に失敗")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence-failure", "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ 予期しないエラー")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "details": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "リクエストの形式が正しくありません",
		"details": err.Error(),
	})
}
