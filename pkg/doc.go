// Package pkg provides the core libraries for Backdrop decorative backgrounds.
//
// # Overview
//
// Backdrop fills a page's background with hand-drawn looking line figures.
// Each figure is a path from a fixed library, placed at a random spot with a
// random color, scale and animation time, drawn stroke by stroke and removed
// when its animation ends. The pkg directory is organized into three areas:
//
//  1. Domain - [shapes], [drawing], [config] and [svgpath]
//  2. Lifecycle - [backdrop], the spawner that keeps drawings alive
//  3. Output and support - [render], [cache], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The flow from configuration to markup:
//
//	config.Config + shapes.Library
//	         ↓
//	    [drawing] (randomize one instance)
//	         ↓
//	    [svgpath] (measure the stroke length)
//	         ↓
//	    [render] (SVG fragment, page or snapshot)
//	         ↓
//	    [backdrop] Container (browser session, memory, terminal)
//
// # Quick Start
//
// Render a still snapshot with the default configuration:
//
//	import (
//	    "github.com/matzehuels/backdrop/pkg/backdrop"
//	    "github.com/matzehuels/backdrop/pkg/config"
//	    "github.com/matzehuels/backdrop/pkg/render"
//	)
//
//	cfg := config.Default()
//	elems, err := backdrop.Batch(cfg, cfg.Library(), 1280, 720, 0)
//	if err != nil {
//	    return err
//	}
//	svg := render.Snapshot(backdrop.Items(elems), 1280, 720)
//
// Keep a live layer running against any [backdrop.Surface]:
//
//	surface := backdrop.NewMemorySurface(1280, 720, cfg.ContainerID)
//	sp, err := backdrop.New(cfg, cfg.Library(), surface)
//	if err != nil {
//	    return err
//	}
//	if err := sp.Start(ctx); err != nil {
//	    return err
//	}
//	defer sp.Stop()
//
// # Packages
//
// [shapes] - The built-in path library and custom library validation.
//
// [drawing] - Randomized instances: position, scale, color and duration.
//
// [config] - Spawner configuration, defaults, validation and TOML files.
//
// [svgpath] - Path data parsing and geometric length.
//
// [backdrop] - The spawner, its Surface and Container abstractions, an
// in-memory surface and batch generation.
//
// [render] - Fragments, the host page, its stylesheet, snapshots and raster
// conversion.
//
// [cache] - Memory, file and null artifact caches.
//
// [observability] - Hooks for spawner and session events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at build time.
//
// [shapes]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/shapes
// [drawing]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/drawing
// [config]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/config
// [svgpath]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/svgpath
// [backdrop]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/backdrop
// [backdrop.Surface]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/backdrop#Surface
// [render]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/backdrop/pkg/buildinfo
package pkg
