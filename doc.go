// Package panoroom is an interactive six-sided panoramic room for [Ebitengine].
//
// Each wall of the room carries overlay images whose opaque pixels are
// clickable hotspots. Pointing at a wall hit-tests the overlay alpha
// pixel-accurately, highlights the hotspot under the pointer, and a click
// flies the camera into a close-up of that hotspot. Escape (or
// [Scene.Dismiss]) flies it back to the view it left.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene, err := panoroom.NewScene(panoroom.DefaultConfig(), panoroom.DefaultHotspotTable())
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene.OnSelect(func(id string) { fmt.Println("selected", id) })
//	scene.LoadAssets(context.Background())
//	panoroom.Run(scene, panoroom.RunConfig{Title: "Room", Width: 1280, Height: 720})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Hotspots
//
// Hotspots are authored against a 2000x1800 reference image per wall. A
// [Mapper] turns each bounding box into a plane on its wall, and a
// [Registry] stacks overlapping planes a little in front of one another so
// they never z-fight. Set [HotspotDef.Stack] to move a hotspot behind or in
// front of its siblings.
//
// # Camera
//
// The [Controller] is the only thing that moves the camera outside of the
// user's orbit controls. It accepts [Controller.Focus] only when idle and
// [Controller.Restore] only when focused; everything else is ignored. Both
// return a [Completion] that closes on the tick after the camera arrives.
//
// # Events
//
// Hover and camera events can be forwarded to an ECS through
// [Scene.SetEntityStore]; see the panoroom/ecs module for a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package panoroom
