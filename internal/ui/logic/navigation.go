package logic

import (
	"utsulog/internal/session"
)

// CardHeight is the number of terminal rows one result occupies:
// a meta line, the message line and a separator.
const CardHeight = 3

// Navigator handles navigation and viewport management over a flat result list
type Navigator struct {
	selectedIndex  int
	viewportOffset int // first visible result
	viewportHeight int // rows available for the list
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move shifts the selection by delta results, clamping at both ends
func (n *Navigator) Move(delta int) (int, int) {
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// Page moves the selection by one screen of cards
func (n *Navigator) Page(direction int) (int, int) {
	step := n.VisibleCards()
	if direction < 0 {
		step = -step
	}
	return n.Move(step)
}

// GetMaxIndex returns the maximum selectable index
func (n *Navigator) GetMaxIndex() int {
	return n.totalItems - 1
}

// VisibleCards returns how many cards fit once scroll indicators are accounted for
func (n *Navigator) VisibleCards() int {
	rows := n.viewportHeight
	if n.viewportOffset > 0 {
		rows-- // top indicator
	}
	if n.viewportOffset+rows/CardHeight < n.totalItems {
		rows-- // bottom indicator
	}
	cards := rows / CardHeight
	if cards < 1 {
		cards = 1
	}
	return cards
}

// ScrollMetrics reports the viewport in rows for the session's near-end check
func (n *Navigator) ScrollMetrics() session.ScrollMetrics {
	return session.ScrollMetrics{
		ContentHeight:  n.totalItems * CardHeight,
		Offset:         n.viewportOffset * CardHeight,
		ViewportHeight: n.VisibleCards() * CardHeight,
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	if n.totalItems <= 0 {
		n.selectedIndex = 0
		n.viewportOffset = 0
		return
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
	if n.selectedIndex > n.GetMaxIndex() {
		n.selectedIndex = n.GetMaxIndex()
	}

	// If selected item is above viewport, scroll up
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// Indicators change the visible count, so settle in a couple of passes
	for i := 0; i < 3; i++ {
		visible := n.VisibleCards()
		if n.selectedIndex < n.viewportOffset+visible {
			break
		}
		n.viewportOffset = n.selectedIndex - visible + 1
	}

	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
