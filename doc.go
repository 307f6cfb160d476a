// Package pulsar is a 2D game framework for [Ebitengine].
//
// Pulsar provides the game loop, ordered component scheduling, a shot and
// scene director with asynchronous loading, and the services most games
// need around them: content loading, configuration, audio, localisation,
// hotkeys, a developer console, a small GUI layer and particles.
//
// # Quick start
//
// Create a [Window], wrap it in a [RenderableGame], add components and run:
//
//	win := pulsar.NewWindow(800, 600)
//	game := pulsar.NewRenderableGame(win)
//	game.Add(pulsar.NewFPSComponent(win))
//	if err := game.RunWindowed(pulsar.WindowConfig{Title: "My Game"}); err != nil {
//		log.Fatal(err)
//	}
//
// [Game.Run] drives the same lifecycle without a native window, which is how
// tests and tools step the loop. [Game.Tick] runs a single iteration.
//
// # Components
//
// Components are plain values implementing [Component] plus any of
// [Updateable], [Drawable], [ContentLoader] and [Disposer]. Embed
// [GameComponent] or [DrawableGameComponent] for the common state:
//
//	type Spinner struct {
//		pulsar.DrawableGameComponent
//		angle float64
//	}
//
//	func (s *Spinner) Update(t pulsar.GameTime) error {
//		s.angle += t.ElapsedSeconds()
//		return nil
//	}
//
// Updates run in ascending [Updateable.UpdateOrder] and draws in ascending
// [Drawable.DrawOrder]. Components sharing an order run in the order they
// were added. Changing an order at runtime moves the component immediately.
//
// # Director
//
// Screens are built from shots, managed by the director package: a
// ShotManager runs transitions and dialog focus, and a SceneManager swaps
// whole sets of shots, loading their content in parallel.
//
// [Ebitengine]: https://ebitengine.org
package pulsar
