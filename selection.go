package furnish

// SelectionState is a snapshot of the selection and menu state machine.
type SelectionState struct {
	Menu MenuState `json:"menuState"`
	// ActiveAccordion is the id whose detail panel is expanded, or "".
	ActiveAccordion string `json:"activeAccordion"`
	// EditVisible is the only item showing its in-scene edit badge, or "".
	EditVisible string `json:"editVisible"`
	// Selected is the item last opened for editing.
	Selected string `json:"selected"`
	// Hovered is the item under the pointer.
	Hovered string `json:"hovered"`
	// Dragging is the item held by the pointer, or "".
	Dragging string `json:"dragging"`
	Dialog   Dialog `json:"dialog"`
}

// EditorOpen reports whether the placement editor is showing an item.
func (s SelectionState) EditorOpen() bool {
	return s.Menu == MenuOpen && s.ActiveAccordion != ""
}

// Selection coordinates the side panel, accordion, edit badge and modal
// dialogs. The badge is held as a single id, so at most one item can ever
// show it. While a dialog is open every editor transition is refused with
// ErrDialogOpen.
type Selection struct {
	state SelectionState
}

// State returns the current snapshot.
func (s *Selection) State() SelectionState {
	return s.state
}

func (s *Selection) guard() error {
	if s.state.Dialog != DialogNone {
		return ErrDialogOpen
	}
	return nil
}

// OpenEditor opens the side panel focused on id.
func (s *Selection) OpenEditor(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.state.Menu = MenuOpen
	s.state.ActiveAccordion = id
	s.state.Selected = id
	return nil
}

// CloseEditor closes the side panel and collapses the accordion.
func (s *Selection) CloseEditor() {
	s.state.Menu = MenuClosed
	s.state.ActiveAccordion = ""
}

// ToggleMenu flips the panel without touching the accordion.
func (s *Selection) ToggleMenu() error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.state.Menu == MenuOpen {
		s.state.Menu = MenuClosed
	} else {
		s.state.Menu = MenuOpen
	}
	return nil
}

// SetAccordion expands id's panel; "" collapses all.
func (s *Selection) SetAccordion(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.state.ActiveAccordion = id
	if id != "" {
		s.state.Selected = id
	}
	return nil
}

// SetEditVisible shows or hides id's badge. Showing it hides every other
// badge. Hiding is always allowed.
func (s *Selection) SetEditVisible(id string, visible bool) error {
	if !visible {
		if s.state.EditVisible == id {
			s.state.EditVisible = ""
		}
		return nil
	}
	if err := s.guard(); err != nil {
		return err
	}
	s.state.EditVisible = id
	return nil
}

// ToggleEditVisible flips id's badge and returns its new visibility.
func (s *Selection) ToggleEditVisible(id string) (bool, error) {
	visible := s.state.EditVisible != id
	if err := s.SetEditVisible(id, visible); err != nil {
		return false, err
	}
	return visible, nil
}

// PressEditBadge handles a press on id's badge: a closed panel opens on the
// item, an open one closes.
func (s *Selection) PressEditBadge(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.state.Menu == MenuClosed {
		s.state.Menu = MenuOpen
		s.state.ActiveAccordion = id
		s.state.Selected = id
		return nil
	}
	s.CloseEditor()
	return nil
}

// Dismiss is the click-away transition: panel closed, accordion collapsed,
// badge hidden.
func (s *Selection) Dismiss() {
	s.CloseEditor()
	s.state.EditVisible = ""
	s.state.Selected = ""
}

// OpenDialog opens d and dismisses the placement editor in the same step.
// Opening DialogNone closes any open dialog.
func (s *Selection) OpenDialog(d Dialog) {
	if d == DialogNone {
		s.CloseDialog()
		return
	}
	s.Dismiss()
	s.state.Dragging = ""
	s.state.Dialog = d
}

// CloseDialog returns to the scene. The editor stays closed.
func (s *Selection) CloseDialog() {
	s.state.Dialog = DialogNone
}

// BeginDrag records that id is held by the pointer.
func (s *Selection) BeginDrag(id string) {
	s.state.Dragging = id
}

// EndDrag clears the dragging flag.
func (s *Selection) EndDrag() {
	s.state.Dragging = ""
}

// SetHovered records the item under the pointer.
func (s *Selection) SetHovered(id string) {
	s.state.Hovered = id
}

// Forget drops every reference to a removed item. The panel's own open or
// closed state is left alone.
func (s *Selection) Forget(id string) {
	if s.state.ActiveAccordion == id {
		s.state.ActiveAccordion = ""
	}
	if s.state.EditVisible == id {
		s.state.EditVisible = ""
	}
	if s.state.Selected == id {
		s.state.Selected = ""
	}
	if s.state.Hovered == id {
		s.state.Hovered = ""
	}
	if s.state.Dragging == id {
		s.state.Dragging = ""
	}
}
