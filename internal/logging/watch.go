package logging

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig reloads the logging config whenever .eduvane/config.yaml
// changes, so debug_mode and category toggles take effect without a
// restart. Initialize must have run first. The returned stop function
// closes the watcher and ends the reload goroutine.
func WatchConfig() (func(), error) {
	if workspace == "" {
		return nil, fmt.Errorf("logging not initialized")
	}

	dir := filepath.Join(workspace, ".eduvane")
	configPath := filepath.Join(dir, "config.yaml")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	// Watch the directory, not the file: editors replace the file on
	// save, which would drop a file-level watch.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != configPath {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := ReloadConfig(); err != nil {
					Get(CategoryBoot).Warn("config reload failed: %v", err)
					continue
				}
				Boot("logging config reloaded (debug_mode=%v)", IsDebugMode())
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
