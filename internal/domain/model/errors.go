package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated ログインユーザーが必要な操作
	ErrNotAuthenticated = errors.New("not-authenticated")
	// ErrNoMatch 詳細プロバイダで該当する候補が見つからない
	ErrNoMatch = errors.New("no-match")
	// ErrProviderStatus 詳細プロバイダが OK 以外のステータスを返した
	ErrProviderStatus = errors.New("provider-error")
	// ErrPersistence 保存処理の失敗（ソフトエラー）
	ErrPersistence = errors.New("persistence-failure")
	// ErrCancelled 呼び出し元によるキャンセル。リトライしない
	ErrCancelled = errors.New("cancelled")
	// ErrReadinessTimeout 詳細プロバイダの準備完了待ちがタイムアウトした
	ErrReadinessTimeout = errors.New("details provider readiness timeout")
	// ErrInvalidRating 評価が 1..5 の範囲外
	ErrInvalidRating = errors.New("invalid-rating")
	// ErrNoPosition 現在地が未取得
	ErrNoPosition = errors.New("location-error")
	// ErrForbidden 他ユーザーのリソースへの操作
	ErrForbidden = errors.New("forbidden")
)

// ProviderError 詳細プロバイダの非OKステータス
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("details provider status: %s", e.Status)
	}
	return fmt.Sprintf("details provider status: %s (%s)", e.Status, e.Message)
}

// Is errors.Is(err, ErrProviderStatus) で判定できるようにする
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderStatus
}

// NotFoundError リソースが存在しない
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is errors.Is での NotFoundError 判定
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
