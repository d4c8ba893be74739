// Package backdrop keeps a decorative layer of animated line drawings alive
// inside a rendering container.
//
// A [Spawner] samples drawings (see package drawing), renders each one as an
// inline SVG fragment with a stroke-reveal animation, attaches it to the
// container found on its [Surface], and detaches it again once the animation
// has run for its full duration.
//
// # Lifecycle
//
// [Spawner.Start] fills the container gradually, one drawing per second up to
// the configured cap, and runs a top-up check every 500ms that adds exactly
// one drawing whenever the live count is below the cap. [Spawner.Stop] cancels
// every timer and detaches every drawing the spawner still owns. A stopped
// spawner can be started again.
//
//	surface := backdrop.NewMemorySurface(1280, 720, config.DefaultContainerID)
//	sp, err := backdrop.New(cfg, cfg.Library(), surface, backdrop.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := sp.Start(ctx); err != nil {
//	    return err
//	}
//	defer sp.Stop()
//
// # Failure Handling
//
// Spawning never returns an error. A missing container or a container that
// refuses an element skips the attempt with a log line. A path whose length
// cannot be measured is drawn with [render.DefaultDashLength].
//
// # Concurrency
//
// Every public method and every timer callback runs under one mutex, so
// container mutations are strictly sequential. Timers remember the run they
// were scheduled for and do nothing once that run has been stopped.
package backdrop
