package tui

import (
	"os"
	"time"

	"schemadesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// storeChangedMsg is sent (debounced) when the workspace database changes on disk,
// e.g. because a CLI command ran in another terminal.
type storeChangedMsg struct{}

// pollFallbackMsg switches the TUI to mod-time polling when no watcher could start.
type pollFallbackMsg struct{}

type reloadTickMsg struct{}

const (
	watchDebounce = 150 * time.Millisecond
	pollInterval  = 2 * time.Second
)

func tickReload() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

type storeWatcher struct {
	w *fsnotify.Watcher
}

func watchStore(dir string, send func(tea.Msg), log *zap.Logger) (*storeWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	sw := &storeWatcher{w: w}
	go sw.loop(send, log)
	return sw, nil
}

func (sw *storeWatcher) loop(send func(tea.Msg), log *zap.Logger) {
	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !store.IsDataFile(event.Name) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				send(storeChangedMsg{})
			})
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			log.Warn("store watcher error", zap.Error(err))
		}
	}
}

func (sw *storeWatcher) Close() error {
	return sw.w.Close()
}
