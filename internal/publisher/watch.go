package publisher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchExts are the file types whose changes trigger a republish.
var watchExts = []string{".md", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// Watch monitors the vault for changes and republishes after each burst of
// events settles, until ctx is cancelled. Events are debounced so a bulk
// edit (sync clients, git checkout) causes one run, not dozens.
//
// New directories created at runtime are added to the watch list.
func (p *Publisher) Watch(ctx context.Context, vaultRoot string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	p.logger.Info("watch: started", slog.String("root", vaultRoot))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			p.logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			result, err := p.Publish(ctx, false)
			if err != nil {
				p.logger.Error("watch: publish failed", slog.String("error", err.Error()))
				continue
			}
			p.logger.Info("watch: republished",
				slog.Int("published", len(result.PublishedTitles)),
				slog.Int("failures", len(result.Failures)),
				slog.Int("removed_images", len(result.RemovedImages)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						p.logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			if !watchedFile(ev.Name) {
				continue
			}
			p.logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

func watchedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range watchExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
