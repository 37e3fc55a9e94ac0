// Package showroom is a pointer-to-object interaction layer for 3D scenes
// built on [Ebitengine].
//
// A [Scene] owns a tree of [Node] values, a perspective [Camera] and a
// [Dispatcher]. Pointer input is captured into a single pending slot and
// resolved once per frame, after the camera has moved, by casting a ray from
// the camera through the pointer and picking the nearest interactable node.
// The resolved node's [TargetID] selects the handler to run.
//
// # Quick start
//
// The simplest way to get started is [BuildShowroom] with [DefaultConfig],
// then [Run]:
//
//	sr, err := showroom.BuildShowroom(showroom.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	showroom.Run(sr.Scene, showroom.RunConfigFrom(sr.Config))
//
// For full control, build the tree yourself and register handlers:
//
//	scene := showroom.NewScene()
//	bulb := showroom.NewSphere("bulb1", 0.3)
//	bulb.SetPosition(0, 2, 0)
//	scene.Root().AddChild(bulb)
//	scene.On("bulb1", showroom.EventClick, func(ctx showroom.EventContext) {
//		fmt.Println("clicked", ctx.Target, "at", ctx.Point)
//	})
//
// and implement [ebiten.Game] around [Scene.Update] and [Scene.Draw].
//
// # Events
//
// Motion produces [EventHoverLeave] then [EventHoverEnter] when the nearest
// object changes. Discrete input produces [EventPress], [EventClick],
// [EventDoubleClick] and [EventContextMenu] at the last pointer position.
// [EventRelease] fires with a click on the object last pressed. Several
// inputs in one frame coalesce; only the latest is dispatched.
//
// # Panels, orbit controls and the walking character
//
// A [Panel] is a node that tweens between a closed and an open [Pose] and
// carries its own close button. [OrbitControls] rotate, dolly and pan the
// camera around a target. A [WalkController] moves a model with the keyboard
// relative to the camera and crossfades idle, walk and run clips.
//
// # Scripting and screenshots
//
// [LoadTestScript] parses a JSON script of pointer steps that drive the
// scene through injected input, for automated visual tests. [Scene.Screenshot]
// queues a PNG capture of the next drawn frame.
//
// [Ebitengine]: https://ebitengine.org
package showroom
