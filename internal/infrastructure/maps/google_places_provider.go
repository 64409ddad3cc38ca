package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
)

// DefaultPlacesBaseURL Google Places API（レガシー）のベースURL
const DefaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

var detailFields = []string{
	"place_id", "name", "formatted_address", "formatted_phone_number", "website",
	"opening_hours", "rating", "user_ratings_total", "price_level", "reviews", "photos", "geometry",
	"serves_breakfast", "serves_lunch", "serves_dinner", "serves_vegetarian_food",
	"reservable", "delivery", "dine_in", "takeout", "wheelchair_accessible_entrance",
}

// GooglePlacesProvider はGoogle Places APIを使用したDetailsProviderの実装
type GooglePlacesProvider struct {
	client       *resty.Client
	apiKey       string
	baseURL      string
	gate         *ReadinessGate
	readyTimeout time.Duration
}

// NewGooglePlacesProvider は新しいプロバイダを生成する。
// APIキーの検証は非同期に行い、完了するまで各呼び出しはゲートで待機する
func NewGooglePlacesProvider(apiKey, baseURL string, readyTimeout time.Duration) *GooglePlacesProvider {
	if baseURL == "" {
		baseURL = DefaultPlacesBaseURL
	}
	if readyTimeout <= 0 {
		readyTimeout = model.DetailsReadinessTimeout
	}
	p := &GooglePlacesProvider{
		client:       resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetHeader("Accept", "application/json"),
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		gate:         NewReadinessGate(),
		readyTimeout: readyTimeout,
	}
	p.gate.Start(context.Background(), p.validate)
	return p
}

func (p *GooglePlacesProvider) validate(ctx context.Context) error {
	if strings.TrimSpace(p.apiKey) == "" {
		log.Error().Msg("❌ Google Maps APIキーが設定されていません")
		return errors.New("Google Maps APIキーが設定されていません")
	}
	log.Info().Msg("✅ Google Placesプロバイダの準備が完了しました")
	return nil
}

// ResolveByNameNear テキスト検索（位置バイアス付き）でプレイスIDを取得し、詳細を取得する
func (p *GooglePlacesProvider) ResolveByNameNear(ctx context.Context, name string, lat, lon float64) (*model.PlaceDetails, error) {
	if err := p.gate.Wait(ctx, p.readyTimeout); err != nil {
		return nil, err
	}

	var found findPlaceResponse
	if err := p.get(ctx, "/findplacefromtext/json", map[string]string{
		"input":        name,
		"inputtype":    "textquery",
		"fields":       "place_id",
		"locationbias": fmt.Sprintf("circle:%d@%f,%f", model.FindPlaceBiasMeters, lat, lon),
	}, &found); err != nil {
		return nil, err
	}

	if found.Status == "ZERO_RESULTS" || (found.Status == "OK" && len(found.Candidates) == 0) {
		return nil, fmt.Errorf("%w: %s", model.ErrNoMatch, name)
	}
	if found.Status != "OK" {
		return nil, &model.ProviderError{Status: found.Status, Message: found.ErrorMessage}
	}
	return p.resolveByID(ctx, found.Candidates[0].PlaceID)
}

// ResolveByID プレイスIDで詳細を取得する
func (p *GooglePlacesProvider) ResolveByID(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	if err := p.gate.Wait(ctx, p.readyTimeout); err != nil {
		return nil, err
	}
	return p.resolveByID(ctx, placeID)
}

func (p *GooglePlacesProvider) resolveByID(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	var details placeDetailsResponse
	if err := p.get(ctx, "/details/json", map[string]string{
		"place_id": placeID,
		"fields":   strings.Join(detailFields, ","),
	}, &details); err != nil {
		return nil, err
	}
	if details.Status != "OK" {
		return nil, &model.ProviderError{Status: details.Status, Message: details.ErrorMessage}
	}
	return details.Result.toDomain(placeID), nil
}

// PhotoURLs 写真ハンドルを固定サイズの絶対URLに変換する
func (p *GooglePlacesProvider) PhotoURLs(handles []string, max int) []string {
	urls := make([]string, 0, len(handles))
	for _, h := range handles {
		if len(urls) == max {
			break
		}
		if h == "" {
			continue
		}
		params := url.Values{}
		params.Set("maxwidth", fmt.Sprint(model.PhotoMaxWidth))
		params.Set("maxheight", fmt.Sprint(model.PhotoMaxHeight))
		params.Set("photo_reference", h)
		params.Set("key", p.apiKey)
		urls = append(urls, fmt.Sprintf("%s/photo?%s", p.baseURL, params.Encode()))
	}
	return urls
}

func (p *GooglePlacesProvider) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("key", p.apiKey).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", model.ErrCancelled, err)
		}
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &model.ProviderError{Status: resp.Status()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	return nil
}

// --- Google Places APIのレスポンスをパースするための構造体 ---

type findPlaceResponse struct {
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type placeDetailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Phone            string   `json:"formatted_phone_number"`
	Website          string   `json:"website"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	OpeningHours     *struct {
		OpenNow     *bool    `json:"open_now"`
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
	Reviews []struct {
		AuthorName   string `json:"author_name"`
		Rating       int    `json:"rating"`
		Text         string `json:"text"`
		RelativeTime string `json:"relative_time_description"`
	} `json:"reviews"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
	Geometry *struct {
		Location model.LatLng `json:"location"`
	} `json:"geometry"`
	ServesBreakfast      bool `json:"serves_breakfast"`
	ServesLunch          bool `json:"serves_lunch"`
	ServesDinner         bool `json:"serves_dinner"`
	ServesVegetarianFood bool `json:"serves_vegetarian_food"`
	Reservable           bool `json:"reservable"`
	Delivery             bool `json:"delivery"`
	DineIn               bool `json:"dine_in"`
	Takeout              bool `json:"takeout"`
	WheelchairEntrance   bool `json:"wheelchair_accessible_entrance"`
}

func (r placeResult) toDomain(requestedID string) *model.PlaceDetails {
	d := &model.PlaceDetails{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Phone:            r.Phone,
		Website:          r.Website,
		Rating:           r.Rating,
		RatingCount:      r.UserRatingsTotal,
		PriceLevel:       r.PriceLevel,
		ServiceFlags: model.ServiceFlags{
			Breakfast:  r.ServesBreakfast,
			Lunch:      r.ServesLunch,
			Dinner:     r.ServesDinner,
			Vegetarian: r.ServesVegetarianFood,
			Reservable: r.Reservable,
			Delivery:   r.Delivery,
			DineIn:     r.DineIn,
			Takeout:    r.Takeout,
			Wheelchair: r.WheelchairEntrance,
		},
	}
	if d.PlaceID == "" {
		d.PlaceID = requestedID
	}
	if r.OpeningHours != nil {
		d.OpenNow = r.OpeningHours.OpenNow
		d.WeekdayText = r.OpeningHours.WeekdayText
	}
	for _, rv := range r.Reviews {
		d.Reviews = append(d.Reviews, model.ReviewSummary{
			Author:       rv.AuthorName,
			Rating:       rv.Rating,
			Text:         rv.Text,
			RelativeTime: rv.RelativeTime,
		})
	}
	for _, ph := range r.Photos {
		d.PhotoHandles = append(d.PhotoHandles, ph.PhotoReference)
	}
	if r.Geometry != nil {
		loc := r.Geometry.Location
		d.Location = &loc
	}
	return d
}
