package model

import "strings"

// Review Reviewsコレクションに保存されるユーザーレビュー
type Review struct {
	ID             string `json:"id,omitempty"`
	AuthorID       string `json:"authorId"`
	RestaurantID   string `json:"restaurantId"` // レビュー対象POIのdocId
	RestaurantName string `json:"restaurantName"`
	AuthorName     string `json:"authorName"`
	Rating         int    `json:"rating"`
	Text           string `json:"text"`
	Time           string `json:"time"`
	Translated     bool   `json:"translated"`
}

// ReviewInput レビュー投稿リクエスト
type ReviewInput struct {
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	AuthorName     string `json:"authorName"`
	Rating         int    `json:"rating"`
	Text           string `json:"text"`
}

// Validate 入力値を検証する
func (in *ReviewInput) Validate() error {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return ErrInvalidRating
	}
	if strings.TrimSpace(in.RestaurantID) == "" {
		return &ValidationError{Field: "restaurantId", Message: "レストランIDは必須です"}
	}
	return nil
}

// ToDocument 保存用ドキュメントに変換する（IDはドキュメントキーなので含めない）
func (r *Review) ToDocument() (Document, error) {
	doc, err := toDocument(r)
	if err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}

// ReviewFromDocument ドキュメントからReviewを復元する
func ReviewFromDocument(id string, doc Document) (*Review, error) {
	var r Review
	if err := fromDocument(doc, &r); err != nil {
		return nil, err
	}
	r.ID = id
	return &r, nil
}
