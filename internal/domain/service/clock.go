package service

import "time"

// Clock 現在時刻の取得元。テストでは固定時刻に差し替える
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock 実時間のClockを作成
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
