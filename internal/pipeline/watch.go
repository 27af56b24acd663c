package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch submits a job for every PDF that appears in dir until ctx is done.
// The upload collaborator signals completion by renaming the finished file
// into the watched directory, so a create event means the bytes are whole.
func (o *Orchestrator) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if strings.ToLower(filepath.Ext(event.Name)) != ".pdf" {
					continue
				}
				job := NewJob(event.Name)
				if err := o.Submit(job); err != nil {
					o.log.Error("submit failed", "file", event.Name, "error", err)
					continue
				}
				o.log.Info("queued filing", "file", event.Name, "job_id", job.ID)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				o.log.Error("watch error", "error", err)
			}
		}
	}()
	return nil
}
