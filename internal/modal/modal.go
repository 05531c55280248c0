// Package modal tracks which overlay a screen shows and which tab is active.
package modal

import (
	"errors"
	"fmt"

	"ainews-console/internal/backend"
)

type Kind string

const (
	None Kind = "none"
	Add  Kind = "add"
	Edit Kind = "edit"
	View Kind = "view"
)

var (
	ErrInvalidTransition = errors.New("modal: invalid transition")
	ErrUnknownTab        = errors.New("modal: unknown tab")
)

// State is a snapshot for rendering.
type State struct {
	Kind      Kind           `json:"kind"`
	Selected  backend.Record `json:"selected,omitempty"`
	ActiveTab string         `json:"activeTab,omitempty"`
}

// Controller is not safe for concurrent use; the owning screen serializes access.
type Controller struct {
	tabs      []string
	kind      Kind
	selected  backend.Record
	activeTab string
}

func NewController(tabs []string) *Controller {
	c := &Controller{tabs: append([]string(nil), tabs...), kind: None}
	c.activeTab = c.firstTab()
	return c
}

func (c *Controller) State() State {
	return State{Kind: c.kind, Selected: c.selected, ActiveTab: c.activeTab}
}

func (c *Controller) Kind() Kind { return c.kind }

func (c *Controller) Selected() backend.Record { return c.selected }

func (c *Controller) OpenAdd() error {
	if c.kind != None {
		return c.invalid(Add)
	}
	c.kind = Add
	c.selected = nil
	c.activeTab = c.firstTab()
	return nil
}

func (c *Controller) OpenEdit(rec backend.Record) error {
	if c.kind != None {
		return c.invalid(Edit)
	}
	c.kind = Edit
	c.selected = rec
	c.activeTab = c.firstTab()
	return nil
}

// OpenView leaves the active tab alone.
func (c *Controller) OpenView(rec backend.Record) error {
	if c.kind != None {
		return c.invalid(View)
	}
	c.kind = View
	c.selected = rec
	return nil
}

// EditFromView pivots into editing the record being viewed.
func (c *Controller) EditFromView() error {
	if c.kind != View {
		return c.invalid(Edit)
	}
	c.kind = Edit
	c.activeTab = c.firstTab()
	return nil
}

// Close is valid from any state and drops the selected record.
func (c *Controller) Close() {
	c.kind = None
	c.selected = nil
}

func (c *Controller) SetTab(tab string) error {
	if c.kind != Add && c.kind != Edit {
		return fmt.Errorf("%w: tabs need an add or edit modal", ErrInvalidTransition)
	}
	for _, t := range c.tabs {
		if t == tab {
			c.activeTab = tab
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
}

func (c *Controller) firstTab() string {
	if len(c.tabs) == 0 {
		return ""
	}
	return c.tabs[0]
}

func (c *Controller) invalid(to Kind) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.kind, to)
}
