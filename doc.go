// Package furnish is an interactive furniture placement engine.
//
// It keeps the logical state of a furnished room: the furniture collection,
// the room dimensions and the selection and menu state shown by UI panels.
// It turns pointer input into clamped floor motion and normalizes mesh
// geometry for a renderer. It does not render anything itself; views read
// [Engine.RenderItems] every frame.
//
// # Quick start
//
//	eng, err := furnish.New(furnish.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng.SetCamera(furnish.NewPerspectiveCamera(furnish.Rect{Width: 1280, Height: 720}))
//	eng.SetAssetProvider(furnish.NewGLTFAssets("./assets"))
//
//	// per frame
//	eng.PointerMove(mx, my)
//	eng.Update(1.0 / 60)
//	for _, it := range eng.RenderItems() {
//		// draw it
//	}
//
// # Two clocks
//
// Commands such as [Engine.Rotate] or [Engine.SetSize] change the logical
// state at once and are the source of truth. [Engine.Update] advances the
// presentation clock: the visual rotation eases toward the logical one,
// edit badges fade in and out, throttled drag positions are flushed and
// assets that finished loading replace their placeholder. Pointer
// timestamps come from the same clock, so click detection is
// deterministic when input is injected with [Engine.InjectClick] or a
// [ScriptRunner].
//
// # Selection
//
// At most one item shows its edit badge. Opening a dialog with
// [Engine.OpenDialog] closes the placement editor in the same step, and
// editor commands fail with [ErrDialogOpen] until [Engine.CloseDialog].
//
// # Adapters
//
// Sub-packages connect the engine to the outside: ecs publishes change
// events into a [Donburi] world, view runs an [Ebitengine] window, server
// exposes an HTTP API and config loads settings files.
//
// [Donburi]: https://github.com/yohamta/donburi
// [Ebitengine]: https://ebitengine.org
package furnish
