package memimg

import (
	"context"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Sprites keeps cell-sized copies of the images found in one directory,
// keyed by file name without extension ("food.png" -> "food").
type Sprites struct {
	dir      string
	cellSize int

	mu     sync.RWMutex
	images map[string]image.Image
}

// New returns an empty store for dir. Call Load to fill it.
func New(dir string, cellSize int) *Sprites {
	return &Sprites{
		dir:      dir,
		cellSize: cellSize,
		images:   make(map[string]image.Image),
	}
}

// Load reads every image in the directory. A missing directory is not an error.
func (s *Sprites) Load() error {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		if err := s.loadOne(filepath.Join(s.dir, e.Name())); err != nil {
			log.Printf("sprite %s: %v", e.Name(), err)
		}
	}
	return nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return true
	}
	return false
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Sprites) loadOne(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	// 缩放到格子大小
	scaled := imaging.Resize(img, s.cellSize, s.cellSize, imaging.Lanczos)
	s.mu.Lock()
	s.images[spriteName(path)] = scaled
	s.mu.Unlock()
	return nil
}

// Get returns the sprite stored under name.
func (s *Sprites) Get(name string) (image.Image, bool) {
	s.mu.RLock()
	img, exists := s.images[name]
	s.mu.RUnlock()
	return img, exists
}

// Len is the number of loaded sprites.
func (s *Sprites) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// Watch keeps the store in sync with the directory until ctx is done.
func (s *Sprites) Watch(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isImage(event.Name) {
					continue
				}
				switch {
				case event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create:
					// 文件可能尚未写完，解码失败时等待下一次事件
					if err := s.loadOne(event.Name); err != nil {
						log.Printf("sprite reload %s: %v", event.Name, err)
					}
				case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
					s.mu.Lock()
					delete(s.images, spriteName(event.Name))
					s.mu.Unlock()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("sprite watcher error:", err)
			}
		}
	}()
	return nil
}
