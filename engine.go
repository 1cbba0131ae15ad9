package furnish

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Items created by the inspiration flow have no catalog data.
const (
	proposedType         = "couch"
	proposedOriginalSize = 2.0
)

// placement is the per-item presentation and interaction state. It can be
// rebuilt from the store at any time.
type placement struct {
	drag    DragController
	rot     RotationAnimator
	badge   Badge
	tween   *BadgeTween
	geom    *NormalizedGeometry
	geomKey string
}

func newPlacement(item FurnitureItem, cfg *Config) *placement {
	p := &placement{rot: NewRotationAnimator(item.Rotation, cfg.RotationDamping)}
	p.tween = NewBadgeTween(&p.badge, cfg.BadgeTweenDuration)
	return p
}

// Preferences are scene display options shared by every view.
type Preferences struct {
	ShowMeasurements bool   `json:"showMeasurements"`
	Background       string `json:"background"`
}

// DefaultBackground is the initial scene background color.
const DefaultBackground = "#f0ede6"

// Snapshot is a consistent read of everything a UI panel needs.
type Snapshot struct {
	Furniture   []FurnitureItem `json:"furniture"`
	Room        RoomDimensions  `json:"room"`
	Selection   SelectionState  `json:"selection"`
	Preferences Preferences     `json:"preferences"`
	Version     uint64          `json:"version"`
}

// Engine is the placement engine. It owns the furniture store, the
// selection state machine, the room and every item's drag, rotation and
// geometry state.
//
// An Engine is not safe for concurrent use. Pointer events, commands and
// Update must all come from one goroutine, or be serialized by the caller.
type Engine struct {
	cfg     Config
	store   *Store
	sel     Selection
	room    RoomDimensions
	catalog *Catalog
	prefs   Preferences

	camera Camera
	assets AssetProvider
	sink   EventSink

	placements  map[string]*placement
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	runner      *ScriptRunner

	// now is the presentation clock, advanced by Update.
	now   time.Time
	frame uint64

	debug  bool
	logged map[string]bool
}

// New creates an engine from cfg. Zero fields of cfg take their
// DefaultConfig values; the seed items are added in order.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Room.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg,
		store:      NewStore(cfg.NewID),
		room:       cfg.Room,
		catalog:    DefaultCatalog(),
		prefs:      Preferences{Background: DefaultBackground},
		camera:     NewPerspectiveCamera(Rect{Width: 1280, Height: 720}),
		placements: make(map[string]*placement),
		debug:      cfg.Debug,
		logged:     make(map[string]bool),
	}
	for _, item := range cfg.Seed {
		if _, err := e.add(item); err != nil {
			return nil, fmt.Errorf("seed item %q: %w", item.Name, err)
		}
	}
	return e, nil
}

// --- Collaborators ---

// SetCamera sets the camera used to turn screen points into floor points.
func (e *Engine) SetCamera(c Camera) { e.camera = c }

// Camera returns the current camera.
func (e *Engine) Camera() Camera { return e.camera }

// SetAssetProvider sets where item geometry comes from. With no provider
// every item renders as a placeholder.
func (e *Engine) SetAssetProvider(a AssetProvider) {
	e.assets = a
	for _, p := range e.placements {
		p.geom, p.geomKey = nil, ""
	}
	for _, it := range e.store.Items() {
		e.refreshGeometry(it.ID)
	}
}

// SetEventSink sets the receiver of change events. nil disables events.
func (e *Engine) SetEventSink(s EventSink) { e.sink = s }

// SetCatalog replaces the product list used by AddFromCatalog.
func (e *Engine) SetCatalog(c *Catalog) { e.catalog = c }

// Catalog returns the product list.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// --- Read access ---

func (e *Engine) stamp(it FurnitureItem) FurnitureItem {
	it.IsEditVisible = it.ID != "" && e.sel.State().EditVisible == it.ID
	return it
}

// Furniture returns a copy of the live collection with IsEditVisible
// filled in from the selection state.
func (e *Engine) Furniture() []FurnitureItem {
	items := e.store.Items()
	out := make([]FurnitureItem, len(items))
	for i, it := range items {
		out[i] = e.stamp(it)
	}
	return out
}

// Item returns one item.
func (e *Engine) Item(id string) (FurnitureItem, bool) {
	it, ok := e.store.Get(id)
	if !ok {
		return FurnitureItem{}, false
	}
	return e.stamp(it), true
}

// Label returns the side panel label of an item.
func (e *Engine) Label(id string) string {
	return ItemLabel(e.store.Items(), id)
}

// Room returns the current room dimensions.
func (e *Engine) Room() RoomDimensions { return e.room }

// Selection returns the selection and menu state.
func (e *Engine) Selection() SelectionState { return e.sel.State() }

// Version returns the store version.
func (e *Engine) Version() uint64 { return e.store.Version() }

// Now returns the presentation clock.
func (e *Engine) Now() time.Time { return e.now }

// Frame returns the number of Update calls so far.
func (e *Engine) Frame() uint64 { return e.frame }

// Preferences returns the scene display options.
func (e *Engine) Preferences() Preferences { return e.prefs }

// Snapshot returns the collection, room, selection and preferences in one
// read.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Furniture:   e.Furniture(),
		Room:        e.room,
		Selection:   e.sel.State(),
		Preferences: e.prefs,
		Version:     e.store.Version(),
	}
}

// Bounds returns the traversal limits of an item at its current size and
// rotation.
func (e *Engine) Bounds(id string) (Bounds, error) {
	it, ok := e.store.Get(id)
	if !ok {
		return Bounds{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return e.boundsFor(it), nil
}

func (e *Engine) boundsFor(it FurnitureItem) Bounds {
	w, d := e.cfg.footprint(it)
	return ComputeBounds(e.room, w, d, it.Rotation)
}

func (e *Engine) clampPosition(it FurnitureItem, pos mgl64.Vec3) mgl64.Vec3 {
	x, z := e.boundsFor(it).Clamp(pos.X(), pos.Z())
	return mgl64.Vec3{x, pos.Y(), z}
}

// visualPosition is the drag override while an item is held, otherwise
// the stored position.
func (e *Engine) visualPosition(it FurnitureItem) mgl64.Vec3 {
	if p := e.placements[it.ID]; p != nil && p.drag.Dragging() && p.drag.moved {
		return p.drag.Position()
	}
	return it.Position
}

func (e *Engine) placement(id string) *placement {
	p, ok := e.placements[id]
	if !ok {
		it, _ := e.store.Get(id)
		p = newPlacement(it, &e.cfg)
		e.placements[id] = p
	}
	return p
}

// --- Furniture commands ---

// Add places a new item. Empty color, size and type fields take their
// defaults, y is pinned to the floor and, with KeepInBounds, x and z are
// clamped into the room.
func (e *Engine) Add(item FurnitureItem) (FurnitureItem, error) {
	return e.add(item)
}

func (e *Engine) add(item FurnitureItem) (FurnitureItem, error) {
	if item.Color == "" {
		item.Color = DefaultColor
	}
	if item.Size == "" {
		item.Size = SizeMedium
	}
	if item.Type == "" {
		item.Type = DefaultFootprintType
	}
	item.Position[1] = e.cfg.FloorY
	if e.cfg.KeepInBounds {
		item.Position = e.clampPosition(item, item.Position)
	}
	stored, err := e.store.Add(item)
	if err != nil {
		return FurnitureItem{}, err
	}
	e.placements[stored.ID] = newPlacement(stored, &e.cfg)
	e.refreshGeometry(stored.ID)
	e.tracef("add %s %q at (%.2f, %.2f)", stored.ID, stored.Name, stored.Position.X(), stored.Position.Z())
	e.emitItem(EventItemAdded, stored.ID)
	return e.stamp(stored), nil
}

// spawnPosition returns a random floor point inside the spawn square.
func (e *Engine) spawnPosition() mgl64.Vec3 {
	ext := e.cfg.SpawnExtent
	return mgl64.Vec3{
		e.cfg.Rand.Float64()*ext - ext/2,
		e.cfg.FloorY,
		e.cfg.Rand.Float64()*ext - ext/2,
	}
}

// AddFromCatalog adds the catalog entry with the given id at a random
// position. An empty color picks the entry's first swatch.
func (e *Engine) AddFromCatalog(entryID, color string) (FurnitureItem, error) {
	entry, ok := e.catalog.Lookup(entryID)
	if !ok {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrUnknownCatalog, entryID)
	}
	item, err := entry.Item(color)
	if err != nil {
		return FurnitureItem{}, err
	}
	item.Position = e.spawnPosition()
	return e.add(item)
}

// AddProposed adds one couch per name from the inspiration flow, with the
// default color, medium size and random positions, then closes the
// inspiration dialog if it is open. Blank names are skipped.
func (e *Engine) AddProposed(names []string) ([]FurnitureItem, error) {
	var added []FurnitureItem
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		it, err := e.add(FurnitureItem{
			Name:         name,
			Type:         proposedType,
			Color:        DefaultColor,
			Size:         SizeMedium,
			OriginalSize: proposedOriginalSize,
			Position:     e.spawnPosition(),
		})
		if err != nil {
			return added, err
		}
		added = append(added, it)
	}
	if e.sel.State().Dialog == DialogInspiration {
		e.CloseDialog()
	}
	return added, nil
}

// Duplicate copies an item under a new id, displaced by the configured
// offset. The copy never lands on the original's position: when clamping
// would pull it back, the offset is mirrored.
func (e *Engine) Duplicate(id string) (FurnitureItem, error) {
	src, ok := e.store.Get(id)
	if !ok {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	offset := e.cfg.DuplicateOffset
	if e.cfg.KeepInBounds {
		offset = e.duplicateOffset(src, offset)
	}
	dup, err := e.store.Duplicate(id, offset)
	if err != nil {
		return FurnitureItem{}, err
	}
	p := newPlacement(dup, &e.cfg)
	if sp := e.placements[id]; sp != nil {
		p.rot.Snap(sp.rot.Visual())
	}
	e.placements[dup.ID] = p
	e.refreshGeometry(dup.ID)
	e.tracef("duplicate %s -> %s", id, dup.ID)
	e.emitItem(EventItemAdded, dup.ID)
	return e.stamp(dup), nil
}

func (e *Engine) duplicateOffset(src FurnitureItem, offset mgl64.Vec3) mgl64.Vec3 {
	samePlace := func(p mgl64.Vec3) bool {
		return p.X() == src.Position.X() && p.Z() == src.Position.Z()
	}
	if t := e.clampPosition(src, src.Position.Add(offset)); !samePlace(t) {
		return t.Sub(src.Position)
	}
	if t := e.clampPosition(src, src.Position.Sub(offset)); !samePlace(t) {
		return t.Sub(src.Position)
	}
	return offset
}

// Remove deletes an item and every selection reference to it.
func (e *Engine) Remove(id string) error {
	before := e.sel.State()
	if err := e.store.Remove(id); err != nil {
		return err
	}
	if e.pointer.hitID == id {
		e.pointer = pointerState{}
	}
	delete(e.placements, id)
	e.sel.Forget(id)
	e.tracef("remove %s", id)
	e.emit(SceneEvent{Type: EventItemRemoved, ItemID: id})
	e.syncSelection(before)
	return nil
}

// Rotate turns an item by 90°. The logical rotation changes at once; the
// visual rotation follows over the next frames.
func (e *Engine) Rotate(id string) (FurnitureItem, error) {
	if _, err := e.store.Rotate(id); err != nil {
		return FurnitureItem{}, err
	}
	e.reclamp(id)
	e.debugCheckBounds(id)
	e.emitItem(EventItemUpdated, id)
	it, _ := e.Item(id)
	e.tracef("rotate %s -> %.4f", id, it.Rotation)
	return it, nil
}

// SetColor recolors an item. Invalid colors keep the previous value.
func (e *Engine) SetColor(id, color string) (FurnitureItem, error) {
	if _, err := e.store.SetColor(id, color); err != nil {
		return FurnitureItem{}, err
	}
	e.emitItem(EventItemUpdated, id)
	it, _ := e.Item(id)
	return it, nil
}

// SetSize resizes an item. Invalid sizes keep the previous value.
func (e *Engine) SetSize(id string, size Size) (FurnitureItem, error) {
	if _, err := e.store.SetSize(id, size); err != nil {
		return FurnitureItem{}, err
	}
	e.reclamp(id)
	e.refreshGeometry(id)
	e.debugCheckBounds(id)
	e.emitItem(EventItemUpdated, id)
	it, _ := e.Item(id)
	return it, nil
}

// SetPosition moves an item. y is pinned to the floor; with KeepInBounds
// x and z are clamped.
func (e *Engine) SetPosition(id string, pos mgl64.Vec3) (FurnitureItem, error) {
	it, ok := e.store.Get(id)
	if !ok {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	pos[1] = e.cfg.FloorY
	if e.cfg.KeepInBounds {
		pos = e.clampPosition(it, pos)
	}
	if _, err := e.store.SetPosition(id, pos); err != nil {
		return FurnitureItem{}, err
	}
	e.emitItem(EventItemUpdated, id)
	it, _ = e.Item(id)
	return it, nil
}

// reclamp pulls an item back inside its bounds when KeepInBounds is set.
func (e *Engine) reclamp(id string) bool {
	if !e.cfg.KeepInBounds {
		return false
	}
	it, ok := e.store.Get(id)
	if !ok {
		return false
	}
	pos := e.clampPosition(it, it.Position)
	if pos == it.Position {
		return false
	}
	_, _ = e.store.SetPosition(id, pos)
	e.tracef("reclamp %s to (%.3f, %.3f)", id, pos.X(), pos.Z())
	return true
}

// SetRoomDimensions replaces the room. With KeepInBounds every item is
// clamped into the new walls.
func (e *Engine) SetRoomDimensions(room RoomDimensions) error {
	if err := room.Validate(); err != nil {
		return err
	}
	e.room = room
	for _, it := range e.store.Items() {
		if e.reclamp(it.ID) {
			e.emitItem(EventItemUpdated, it.ID)
		}
	}
	e.tracef("room %+v", room)
	e.emit(SceneEvent{Type: EventRoomChanged})
	return nil
}

// commitDrag writes a held item's visual position to the store.
func (e *Engine) commitDrag(id string, p *placement) {
	it, ok := e.store.Get(id)
	if !ok {
		return
	}
	// Bounds may have changed since the last move.
	pos := e.clampPosition(it, p.drag.Position())
	p.drag.position = pos
	p.drag.committed(e.now)
	if pos == it.Position {
		return
	}
	_, _ = e.store.SetPosition(id, pos)
	e.emitItem(EventItemUpdated, id)
}

// --- Selection commands ---

func (e *Engine) requireItem(id string) error {
	if _, ok := e.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return nil
}

// ToggleMenu opens or closes the side panel.
func (e *Engine) ToggleMenu() error {
	before := e.sel.State()
	if err := e.sel.ToggleMenu(); err != nil {
		return err
	}
	e.syncSelection(before)
	return nil
}

// SetActiveAccordion expands an item's panel; "" collapses all.
func (e *Engine) SetActiveAccordion(id string) error {
	if id != "" {
		if err := e.requireItem(id); err != nil {
			return err
		}
	}
	before := e.sel.State()
	if err := e.sel.SetAccordion(id); err != nil {
		return err
	}
	e.syncSelection(before)
	return nil
}

// SetEditVisible shows or hides an item's edit badge. Showing one hides
// every other.
func (e *Engine) SetEditVisible(id string, visible bool) error {
	if err := e.requireItem(id); err != nil {
		return err
	}
	before := e.sel.State()
	if err := e.sel.SetEditVisible(id, visible); err != nil {
		return err
	}
	e.syncSelection(before)
	return nil
}

// OpenEditor opens the side panel focused on an item.
func (e *Engine) OpenEditor(id string) error {
	if err := e.requireItem(id); err != nil {
		return err
	}
	before := e.sel.State()
	if err := e.sel.OpenEditor(id); err != nil {
		return err
	}
	e.syncSelection(before)
	return nil
}

// CloseEditor closes the side panel and collapses the accordion.
func (e *Engine) CloseEditor() {
	before := e.sel.State()
	e.sel.CloseEditor()
	e.syncSelection(before)
}

// PressEditBadge handles a press on an item's in-scene badge.
func (e *Engine) PressEditBadge(id string) error {
	if err := e.requireItem(id); err != nil {
		return err
	}
	before := e.sel.State()
	if err := e.sel.PressEditBadge(id); err != nil {
		return err
	}
	e.syncSelection(before)
	return nil
}

// Dismiss closes the editor and hides every badge.
func (e *Engine) Dismiss() {
	before := e.sel.State()
	e.sel.Dismiss()
	e.syncSelection(before)
}

// OpenDialog opens a modal dialog. The placement editor is closed, every
// badge hidden and any drag committed in the same step.
func (e *Engine) OpenDialog(d Dialog) error {
	if d == DialogNone || d > DialogRoomSettings {
		return fmt.Errorf("%w: %d", ErrUnknownDialog, d)
	}
	before := e.sel.State()
	e.cancelDrags()
	e.sel.OpenDialog(d)
	e.tracef("open dialog %s", d)
	e.syncSelection(before)
	return nil
}

// CloseDialog closes the open dialog, if any. The editor stays closed.
func (e *Engine) CloseDialog() {
	before := e.sel.State()
	e.sel.CloseDialog()
	e.syncSelection(before)
}

// --- Preferences ---

// SetShowMeasurements toggles footprint measurement labels.
func (e *Engine) SetShowMeasurements(show bool) {
	e.prefs.ShowMeasurements = show
}

// SetBackground sets the scene background color.
func (e *Engine) SetBackground(c string) error {
	if _, err := ParseColor(c); err != nil {
		return err
	}
	e.prefs.Background = c
	return nil
}

// --- Frame clock ---

// Update advances the presentation clock by dt seconds. It runs the
// attached script, replays one injected pointer event, flushes throttled
// drag commits, swaps in geometry that finished loading and steps the
// rotation and badge animations.
func (e *Engine) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.now = e.now.Add(time.Duration(dt * float64(time.Second)))
	e.frame++

	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjectedInput()

	for _, it := range e.store.Items() {
		p := e.placement(it.ID)
		if p.drag.Dragging() && p.drag.shouldCommit(e.now, e.cfg.StoreCommitInterval) {
			e.commitDrag(it.ID, p)
		}
		e.refreshGeometry(it.ID)
		p.rot.Step(it.Rotation)
		p.tween.Update(float32(dt))
	}
}

// syncBadges retargets every badge tween to the selection state.
func (e *Engine) syncBadges() {
	visible := e.sel.State().EditVisible
	for id, p := range e.placements {
		if id == visible {
			p.tween.Show()
		} else {
			p.tween.Hide()
		}
	}
}

func geometryKey(it FurnitureItem) string {
	return fmt.Sprintf("%s|%s|%g", it.FileName, it.Size, it.OriginalSize)
}

// refreshGeometry normalizes an item's asset when its file, size or
// original size changed. A pending asset keeps the placeholder; a failed
// or degenerate one is logged once and keeps the placeholder.
func (e *Engine) refreshGeometry(id string) {
	p := e.placements[id]
	it, ok := e.store.Get(id)
	if p == nil || !ok || e.assets == nil || it.FileName == "" {
		return
	}
	key := geometryKey(it)
	if p.geomKey == key {
		return
	}
	src, err := e.assets.Geometry(it.FileName)
	if errors.Is(err, ErrAssetPending) {
		return
	}
	p.geomKey = key
	if err != nil {
		p.geom = nil
		e.logOnce(id+"|"+key, "asset %s for item %s unavailable: %v", it.FileName, id, err)
		return
	}
	g, err := Normalize(src, it.OriginalSize, e.cfg.sizeFactor(it.Size))
	if err != nil {
		p.geom = nil
		e.logOnce(id+"|"+key, "skipping normalization of %s for item %s: %v", it.FileName, id, err)
		return
	}
	p.geom = g
	e.tracef("geometry ready %s scale=%.4f", id, g.Scale)
	e.emitItem(EventGeometryReady, id)
}

// --- Render feed ---

// RenderItem is everything a renderer needs to draw one item this frame.
type RenderItem struct {
	ID    string
	Label string
	Type  string
	Color color.RGBA
	// Position and Rotation are the visual values: the drag override and
	// the animated rotation.
	Position mgl64.Vec3
	Rotation float64
	// Width and Depth are the resolved footprint.
	Width, Depth float64
	// SizeFactor is the linear factor of the item's size tag.
	SizeFactor float64
	// Geometry is the normalized mesh, or nil while the placeholder shows.
	Geometry *NormalizedGeometry
	Badge    Badge
	Selected bool
	Hovered  bool
	Dragging bool
}

// Placeholder reports whether the item should be drawn as the wireframe
// placeholder box.
func (r RenderItem) Placeholder() bool {
	return r.Geometry == nil
}

// RenderItems returns the draw list in store order, bottom to top.
func (e *Engine) RenderItems() []RenderItem {
	items := e.store.Items()
	sel := e.sel.State()
	out := make([]RenderItem, 0, len(items))
	for _, it := range items {
		p := e.placement(it.ID)
		c, err := ParseColor(it.Color)
		if err != nil {
			c = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
		}
		w, d := e.cfg.footprint(it)
		out = append(out, RenderItem{
			ID:         it.ID,
			Label:      ItemLabel(items, it.ID),
			Type:       it.Type,
			Color:      c,
			Position:   e.visualPosition(it),
			Rotation:   p.rot.Visual(),
			Width:      w,
			Depth:      d,
			SizeFactor: e.cfg.sizeFactor(it.Size),
			Geometry:   p.geom,
			Badge:      p.badge,
			Selected:   sel.ActiveAccordion == it.ID,
			Hovered:    sel.Hovered == it.ID,
			Dragging:   sel.Dragging == it.ID,
		})
	}
	return out
}
