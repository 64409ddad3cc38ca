package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"Gourmet-App/internal/domain/model"
)

// DefaultEndpoint 公開Overpass APIのエンドポイント
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// Backend はOverpass APIを使用したPOIBackendの実装
type Backend struct {
	client   *resty.Client
	endpoint string
}

// NewBackend は新しいOverpassバックエンドを生成する。
// タイムアウトは呼び出し側のcontextで制御する
func NewBackend(endpoint string) *Backend {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Gourmet-App/1.0")
	return &Backend{client: c, endpoint: endpoint}
}

// BuildQuery 半径内のレストラン（node/way/relation）を重心付きで取得するクエリ
func BuildQuery(lat, lon float64, radiusMeters int) string {
	around := fmt.Sprintf(`(around:%d,%f,%f)`, radiusMeters, lat, lon)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	for _, t := range []model.ElementType{model.ElementNode, model.ElementWay, model.ElementRelation} {
		fmt.Fprintf(&b, `%s["amenity"="restaurant"]%s;`, t, around)
	}
	b.WriteString(");out center tags;")
	return b.String()
}

// QueryRestaurants Overpass APIに1回問い合わせる
func (o *Backend) QueryRestaurants(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"data": BuildQuery(lat, lon, radiusMeters)}).
		Post(o.endpoint)
	if err != nil {
		return nil, fmt.Errorf("Overpassリクエストに失敗: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Overpassからエラーステータスが返されました: %s", resp.Status())
	}

	var body overpassResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("OverpassのJSONのパースに失敗: %w", err)
	}
	if body.Elements == nil {
		return []model.RawPOI{}, nil
	}
	return body.Elements, nil
}

type overpassResponse struct {
	Elements []model.RawPOI `json:"elements"`
	Remark   string         `json:"remark,omitempty"`
}
