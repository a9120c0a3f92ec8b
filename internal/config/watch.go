package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"crosscheck/internal/policy"
)

// PolicyDebounce collapses the burst of events an editor emits on save.
var PolicyDebounce = 300 * time.Millisecond

// WatchPolicy reloads the policy file into holder whenever it changes, until
// ctx is done. A file that fails to parse is logged and the previous policy
// stays in force. The directory is watched so replace-on-save editors work.
func WatchPolicy(ctx context.Context, path string, holder *policy.Holder) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("policy watch init: %w", err)
	}
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("policy watch %s: %w", path, err)
	}

	reload := func() {
		p, err := LoadPolicy(target)
		if err != nil {
			log.Printf("policy reload failed, keeping previous: %v", err)
			return
		}
		holder.Store(p)
		log.Printf("policy reloaded from %s", target)
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(PolicyDebounce, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("policy watch error: %v", err)
			}
		}
	}()
	return nil
}
