package screen

import (
	"fmt"
	"sort"

	"ainews-console/internal/dialog"

	"go.uber.org/zap"
)

// Registry holds every screen definition known to the console.
type Registry struct {
	defs  map[string]Definition
	names []string
}

func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("%w: screen %q registered twice", ErrInvalidDefinition, d.Name)
		}
		r.defs[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Definition(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Build creates one fresh screen per definition, sharing the gateway, token
// source and dialog queue of a session.
func (r *Registry) Build(gw Gateway, tokens TokenSource, dialogs dialog.Presenter, log *zap.Logger) map[string]*Screen {
	out := make(map[string]*Screen, len(r.defs))
	for name, def := range r.defs {
		// definitions were validated in NewRegistry
		s, _ := New(def, gw, tokens, dialogs, log)
		out[name] = s
	}
	return out
}
