package pulsar

// Component is the minimal unit attached to a Game.
type Component interface {
	// Initialize is called once, either when the loop initializes or at add
	// time when the loop is already past initialization.
	Initialize() error
}

// Updateable is a component that takes part in the update pass.
type Updateable interface {
	Enabled() bool
	UpdateOrder() int
	// UpdateOrderChanged fires with the new order whenever it changes.
	UpdateOrderChanged() *Event[int]
	Update(t GameTime) error
}

// Drawable is a component that takes part in the draw pass of a
// RenderableGame.
type Drawable interface {
	Visible() bool
	DrawOrder() int
	// DrawOrderChanged fires with the new order whenever it changes.
	DrawOrderChanged() *Event[int]
	Draw(t GameTime)
}

// ContentLoader is implemented by components that load resources right
// after Initialize.
type ContentLoader interface {
	LoadContent() error
}

// Disposer is implemented by components that release resources when they
// are removed from the game.
type Disposer interface {
	Dispose()
}

// GameComponent holds the enabled flag and update order shared by most
// updateable components. Embed it and implement Update.
//
// The zero value is enabled with update order 0.
type GameComponent struct {
	disabled    bool
	updateOrder int

	updateOrderChanged Event[int]
	enabledChanged     Event[bool]
}

// Initialize does nothing. Components that need setup shadow it.
func (c *GameComponent) Initialize() error { return nil }

// Update does nothing. Components shadow it.
func (c *GameComponent) Update(GameTime) error { return nil }

// Enabled reports whether Update is called for this component.
func (c *GameComponent) Enabled() bool { return !c.disabled }

// SetEnabled toggles the update pass for this component.
func (c *GameComponent) SetEnabled(enabled bool) {
	if c.disabled == !enabled {
		return
	}
	c.disabled = !enabled
	c.enabledChanged.Emit(enabled)
}

// UpdateOrder returns the position key in the update pass. Lower runs first.
func (c *GameComponent) UpdateOrder() int { return c.updateOrder }

// SetUpdateOrder changes the update order and notifies the owning game so it
// can reposition the component.
func (c *GameComponent) SetUpdateOrder(order int) {
	if c.updateOrder == order {
		return
	}
	c.updateOrder = order
	c.updateOrderChanged.Emit(order)
}

// UpdateOrderChanged returns the update-order notification.
func (c *GameComponent) UpdateOrderChanged() *Event[int] { return &c.updateOrderChanged }

// EnabledChanged returns the enabled notification.
func (c *GameComponent) EnabledChanged() *Event[bool] { return &c.enabledChanged }

// DrawableGameComponent adds visibility and draw order to GameComponent.
// Embed it and implement Draw.
//
// The zero value is enabled, visible, with both orders 0.
type DrawableGameComponent struct {
	GameComponent

	hidden    bool
	drawOrder int

	drawOrderChanged Event[int]
	visibleChanged   Event[bool]
}

// Draw does nothing. Components shadow it.
func (c *DrawableGameComponent) Draw(GameTime) {}

// Visible reports whether Draw is called for this component.
func (c *DrawableGameComponent) Visible() bool { return !c.hidden }

// SetVisible toggles the draw pass for this component.
func (c *DrawableGameComponent) SetVisible(visible bool) {
	if c.hidden == !visible {
		return
	}
	c.hidden = !visible
	c.visibleChanged.Emit(visible)
}

// DrawOrder returns the position key in the draw pass. Lower draws first.
func (c *DrawableGameComponent) DrawOrder() int { return c.drawOrder }

// SetDrawOrder changes the draw order and notifies the owning game.
func (c *DrawableGameComponent) SetDrawOrder(order int) {
	if c.drawOrder == order {
		return
	}
	c.drawOrder = order
	c.drawOrderChanged.Emit(order)
}

// DrawOrderChanged returns the draw-order notification.
func (c *DrawableGameComponent) DrawOrderChanged() *Event[int] { return &c.drawOrderChanged }

// VisibleChanged returns the visibility notification.
func (c *DrawableGameComponent) VisibleChanged() *Event[bool] { return &c.visibleChanged }
