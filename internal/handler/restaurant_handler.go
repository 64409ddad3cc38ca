package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/handler/middleware"
	"Gourmet-App/internal/usecase"
)

// RestaurantHandler はレストラン一覧・詳細・いいねAPIのハンドラー
type RestaurantHandler struct {
	useCase usecase.RestaurantUseCase
}

// NewRestaurantHandler は新しいRestaurantHandlerインスタンスを作成
func NewRestaurantHandler(useCase usecase.RestaurantUseCase) *RestaurantHandler {
	return &RestaurantHandler{
		useCase: useCase,
	}
}

// InitSession は現在地と絞り込み条件でセッションを初期化する
// POST /api/session/init
func (h *RestaurantHandler) InitSession(c *gin.Context) {
	var req model.InitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if pos := req.Position(); pos != nil {
		if err := validatePosition(pos.Lat, pos.Lon); err != nil {
			respondError(c, err)
			return
		}
	}

	response, err := h.useCase.InitSession(c.Request.Context(), middleware.SessionKeyFromContext(c), middleware.AuthFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListRestaurants は絞り込み条件を適用した一覧を返す
// GET /api/restaurants?distance_km=&liked=&reviewed=&lat=&lon=
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}
	position, err := parsePosition(c)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := h.useCase.ListRestaurants(c.Request.Context(), middleware.SessionKeyFromContext(c), filters, position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SelectRestaurant はPOIの詳細を解決する。解決できない場合は record が null
// POST /api/restaurants/select
func (h *RestaurantHandler) SelectRestaurant(c *gin.Context) {
	var point model.PointOfInterest
	if err := c.ShouldBindJSON(&point); err != nil {
		badRequest(c, err)
		return
	}
	if point.Type == "" || point.ExternalID == 0 {
		respondError(c, &model.ValidationError{Field: "type,id", Message: "POIの種類とIDは必須です"})
		return
	}

	c.JSON(http.StatusOK, h.useCase.SelectRestaurant(c.Request.Context(), middleware.SessionKeyFromContext(c), point))
}

// ToggleLike はいいねを切り替える
// POST /api/restaurants/:docId/like
func (h *RestaurantHandler) ToggleLike(c *gin.Context) {
	docID := c.Param("docId")

	var req model.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	result := h.useCase.ToggleLike(c.Request.Context(), middleware.SessionKeyFromContext(c), middleware.AuthFromContext(c), docID, req.Restaurant)
	if !result.OK {
		respondError(c, result.Err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseFilters(c *gin.Context) (model.Filters, error) {
	filters := model.DefaultFilters()
	if v := c.Query("distance_km"); v != "" {
		km, err := strconv.Atoi(v)
		if err != nil {
			return filters, &model.ValidationError{Field: "distance_km", Message: "整数で指定してください"}
		}
		filters.DistanceKm = km
	}
	filters.Liked = c.Query("liked") == "true"
	filters.Reviewed = c.Query("reviewed") == "true"
	return filters.Normalize(), nil
}

func parsePosition(c *gin.Context) (*model.LatLon, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: "lat", Message: "緯度は数値で指定してください"}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: "lon", Message: "経度は数値で指定してください"}
	}
	if err := validatePosition(lat, lon); err != nil {
		return nil, err
	}
	return &model.LatLon{Lat: lat, Lon: lon}, nil
}

// validatePosition 緯度経度の範囲チェック
func validatePosition(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return &model.ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if lon < -180 || lon > 180 {
		return &model.ValidationError{Field: "lon", Message: "経度は-180から180の範囲で指定してください"}
	}
	return nil
}
