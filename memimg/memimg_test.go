package memimg

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := imaging.New(size, size, color.NRGBA{R: 200, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScalesToCell(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "food.png"), 64)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(dir, 16)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	img, ok := s.Get("food")
	if !ok {
		t.Fatal("food sprite missing")
	}
	if img.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, non-images must be skipped", s.Len())
	}
}

func TestLoadMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"), 16)
	if err := s.Load(); err != nil {
		t.Fatalf("missing dir should be ignored: %v", err)
	}
	if _, ok := s.Get("food"); ok {
		t.Fatal("unexpected sprite")
	}
}

func TestWatchPicksUpNewSprite(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writePNG(t, filepath.Join(dir, "head.png"), 32)
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := s.Get("head"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sprite not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := os.Remove(filepath.Join(dir, "head.png")); err != nil {
		t.Fatal(err)
	}
	deadline = time.Now().Add(3 * time.Second)
	for {
		if _, ok := s.Get("head"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("removed sprite still cached")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
