package maps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Gourmet-App/internal/domain/model"
)

// ReadinessGate 非同期に初期化されるクライアントの準備完了を待つ
type ReadinessGate struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewReadinessGate は未完了のゲートを作成
func NewReadinessGate() *ReadinessGate {
	return &ReadinessGate{done: make(chan struct{})}
}

// Start 初期化処理を別goroutineで実行し、結果でゲートを開く
func (g *ReadinessGate) Start(ctx context.Context, init func(ctx context.Context) error) {
	go func() {
		if err := init(ctx); err != nil {
			g.MarkFailed(err)
			return
		}
		g.MarkReady()
	}()
}

func (g *ReadinessGate) MarkReady() {
	g.finish(nil)
}

// MarkFailed 初期化に失敗した。以降のWaitはこのエラーを返す
func (g *ReadinessGate) MarkFailed(err error) {
	g.finish(err)
}

// Wait 準備完了まで最大timeout待つ。永久に待つことはない
func (g *ReadinessGate) Wait(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", model.ErrCancelled, ctx.Err())
	case <-timer.C:
		return model.ErrReadinessTimeout
	}
}

func (g *ReadinessGate) finish(err error) {
	g.once.Do(func() {
		g.err = err
		close(g.done)
	})
}
