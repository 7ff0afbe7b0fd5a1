package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads tick_ms whenever filePath is written, until ctx is done.
// The parent directory is watched so editors that replace the file still
// trigger a reload.
func Watch(ctx context.Context, filePath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(filePath)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					tick, err := reloadTick(filePath)
					if err != nil {
						log.Printf("config reload: %v", err)
						continue
					}
					log.Printf("config reloaded, tick_ms=%d", tick)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("config watcher error:", err)
			}
		}
	}()
	return nil
}
