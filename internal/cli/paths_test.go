package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backdrop/pkg/cache"
	"github.com/matzehuels/backdrop/pkg/render"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(base, appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if !strings.HasPrefix(dir, home) || filepath.Base(dir) != appName {
			t.Errorf("cacheDir() = %q, want %s/.cache/%s", dir, home, appName)
		}
	})
}

func TestConvertUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir()) // no rsvg-convert available

	c := New(&bytes.Buffer{}, LogInfo)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetErr(&bytes.Buffer{})

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	opts := renderOpts{scale: 2}
	key := cache.Key("convert", render.FormatPNG, opts.scale, cache.Hash(svg))

	dir, _ := conversionDir()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	_ = store.Set(context.Background(), key, []byte("cached-png"), 0)

	data, err := c.convert(cmd, svg, render.FormatPNG, opts)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(data) != "cached-png" {
		t.Errorf("convert = %q, want cached bytes", data)
	}

	opts.noCache = true
	if _, err := c.convert(cmd, svg, render.FormatPNG, opts); err == nil {
		t.Error("--no-cache should bypass the cache and fail without rsvg-convert")
	}
}

func TestCacheCommands(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	want := filepath.Join(base, appName, "convert")

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	store, _ := cache.NewFileCache(want)
	_ = store.Set(context.Background(), "a", []byte("1"), 0)
	_ = store.Set(context.Background(), "b", []byte("2"), 0)

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2") {
		t.Errorf("cache clear output = %q", out)
	}
	if _, ok, _ := store.Get(context.Background(), "a"); ok {
		t.Error("entry survived cache clear")
	}

	out, _ = execute(t, "cache", "clear")
	if !strings.Contains(out, "empty") {
		t.Errorf("second clear output = %q", out)
	}
}
