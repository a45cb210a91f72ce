package worker

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"kanbanBoard/internal/board"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"

	"go.uber.org/zap"
)

const DefaultWatchInterval = 5 * time.Second

// Refresher - доска, которую наблюдатель периодически перезагружает.
type Refresher interface {
	Refresh(ctx context.Context) error
	Columns() board.Columns
}

// BoardWatcher перезагружает доску по таймеру и перерисовывает её только при изменениях.
type BoardWatcher struct {
	board    Refresher
	interval time.Duration
	render   func(board.Columns)

	lastSum uint64
	drawn   bool
}

func NewBoardWatcher(b Refresher, interval *time.Duration, render func(board.Columns)) *BoardWatcher {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = DefaultWatchInterval
	} else {
		intervalToSet = *interval
	}

	return &BoardWatcher{
		board:    b,
		interval: intervalToSet,
		render:   render,
	}
}

// Start рисует доску сразу и затем на каждом тике до отмены ctx.
func (w *BoardWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Наблюдение за доской остановлено")
			return
		}
	}
}

// Check выполняет одну перезагрузку. Ошибка не прерывает наблюдение: доска
// сохраняет прежнее состояние до следующего тика.
func (w *BoardWatcher) Check(ctx context.Context) bool {
	start := time.Now()

	if err := w.board.Refresh(ctx); err != nil {
		if ctx.Err() == nil {
			logger.Warn("Worker: Ошибка обновления доски", zap.Error(err))
		}
		return false
	}

	cols := w.board.Columns()
	sum := fingerprint(cols)
	changed := !w.drawn || sum != w.lastSum
	if changed {
		w.render(cols)
		w.lastSum = sum
		w.drawn = true
	}

	logger.Debug("Worker: Доска обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("tasks", cols.Len()),
		zap.Bool("changed", changed))
	return changed
}

// fingerprint учитывает всё, что видно на доске: порядок, поля и метку обновления.
func fingerprint(cols board.Columns) uint64 {
	h := fnv.New64a()
	for _, column := range [][]task.Task{cols.ToDo, cols.InProgress, cols.Completed} {
		for _, t := range column {
			fmt.Fprintf(h, "%d|%s|%s|%d|%v|%d;", t.ID, t.Title, t.Status, t.Progress, t.AssignedTo, t.UpdatedAt.UnixNano())
		}
		h.Write([]byte{0})
	}
	return h.Sum64()
}
