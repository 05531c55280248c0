// Package fab is the public site's floating action button: a flat
// lookup-table state machine with an optional submenu overlay.
package fab

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// MainMenu is the menu the button opens on.
const MainMenu = "main"

var ErrUnknownItem = errors.New("fab: unknown item")

//go:embed menu.yaml
var defaultTable []byte

type Item struct {
	ID      string `yaml:"id" json:"id"`
	Label   string `yaml:"label" json:"label"`
	Icon    string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Action  string `yaml:"action,omitempty" json:"action,omitempty"`
	Menu    string `yaml:"menu,omitempty" json:"menu,omitempty"`
	Submenu string `yaml:"submenu,omitempty" json:"submenu,omitempty"`
}

type Table struct {
	Menus    map[string][]Item `yaml:"menus"`
	Submenus map[string][]Item `yaml:"submenus"`
}

// ParseTable decodes and checks a menu table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode menu table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DefaultTable is the embedded menu table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTable)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) validate() error {
	if _, ok := t.Menus[MainMenu]; !ok {
		return fmt.Errorf("menu table has no %q menu", MainMenu)
	}
	check := func(where string, items []Item) error {
		for _, it := range items {
			targets := 0
			for _, s := range []string{it.Action, it.Menu, it.Submenu} {
				if s != "" {
					targets++
				}
			}
			if it.ID == "" || targets != 1 {
				return fmt.Errorf("%s: item %q needs an id and exactly one of action, menu, submenu", where, it.ID)
			}
			if it.Menu != "" {
				if _, ok := t.Menus[it.Menu]; !ok {
					return fmt.Errorf("%s: item %q points at missing menu %q", where, it.ID, it.Menu)
				}
			}
			if it.Submenu != "" {
				if _, ok := t.Submenus[it.Submenu]; !ok {
					return fmt.Errorf("%s: item %q points at missing submenu %q", where, it.ID, it.Submenu)
				}
			}
		}
		return nil
	}
	for name, items := range t.Menus {
		if err := check("menu "+name, items); err != nil {
			return err
		}
	}
	for name, items := range t.Submenus {
		if err := check("submenu "+name, items); err != nil {
			return err
		}
	}
	return nil
}

// State is what the widget renders.
type State struct {
	Open    bool   `json:"open"`
	Menu    string `json:"menu,omitempty"`
	Submenu string `json:"submenu,omitempty"`
	Items   []Item `json:"items"`
}

// Menu is one widget instance.
type Menu struct {
	mu      sync.Mutex
	table   *Table
	open    bool
	current string
	submenu string
}

func New(table *Table) *Menu {
	return &Menu{table: table}
}

func (m *Menu) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Toggle opens on the main menu, or closes.
func (m *Menu) Toggle() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		m.closeLocked()
	} else {
		m.open = true
		m.current = MainMenu
		m.submenu = ""
	}
	return m.stateLocked()
}

// Select activates a visible item. Leaf items return their action and close
// the widget.
func (m *Menu) Select(id string) (string, State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return "", m.stateLocked(), fmt.Errorf("%w: %s (menu closed)", ErrUnknownItem, id)
	}
	var item *Item
	for _, it := range m.visibleLocked() {
		if it.ID == id {
			it := it
			item = &it
			break
		}
	}
	if item == nil {
		return "", m.stateLocked(), fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	switch {
	case item.Action != "":
		m.closeLocked()
		return item.Action, m.stateLocked(), nil
	case item.Menu != "":
		m.current = item.Menu
		m.submenu = ""
	case item.Submenu != "":
		m.submenu = item.Submenu
	}
	return "", m.stateLocked(), nil
}

// Back pops the submenu, else returns to main, else closes.
func (m *Menu) Back() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case !m.open:
	case m.submenu != "":
		m.submenu = ""
	case m.current != MainMenu:
		m.current = MainMenu
	default:
		m.closeLocked()
	}
	return m.stateLocked()
}

// OutsideClick closes the widget from any depth.
func (m *Menu) OutsideClick() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	return m.stateLocked()
}

func (m *Menu) closeLocked() {
	m.open = false
	m.current = ""
	m.submenu = ""
}

func (m *Menu) visibleLocked() []Item {
	if !m.open {
		return nil
	}
	if m.submenu != "" {
		return m.table.Submenus[m.submenu]
	}
	return m.table.Menus[m.current]
}

func (m *Menu) stateLocked() State {
	return State{
		Open:    m.open,
		Menu:    m.current,
		Submenu: m.submenu,
		Items:   append([]Item{}, m.visibleLocked()...),
	}
}
