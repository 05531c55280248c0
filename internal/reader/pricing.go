package reader

import (
	"context"
	"sync"

	"ainews-console/internal/backend"

	"go.uber.org/zap"
)

type PricingState struct {
	Status Status           `json:"status"`
	Error  string           `json:"error,omitempty"`
	Plans  []backend.Record `json:"plans"`
}

// PricingPage lists the public plans.
type PricingPage struct {
	gw   Gateway
	demo bool
	log  *zap.Logger

	mu         sync.Mutex
	generation uint64
	state      PricingState
}

func NewPricingPage(gw Gateway, demo bool, log *zap.Logger) *PricingPage {
	if log == nil {
		log = zap.NewNop()
	}
	return &PricingPage{gw: gw, demo: demo, log: log.Named("pricing"), state: PricingState{Status: StatusIdle}}
}

func (p *PricingPage) Load(ctx context.Context) PricingState {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.state = PricingState{Status: StatusLoading}
	p.mu.Unlock()

	plans, err := p.gw.List(ctx, PlansPath, nil, "")

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return p.copyLocked()
	}
	switch {
	case err == nil:
		p.state = PricingState{Status: StatusLoaded, Plans: plans}
	case p.demo:
		p.log.Warn("plans load failed, showing demo plans", zap.Error(err))
		p.state = PricingState{Status: StatusDemo, Plans: demoPlans()}
	default:
		p.log.Warn("plans load failed", zap.Error(err))
		p.state = PricingState{Status: StatusError, Error: backend.Message(err)}
	}
	return p.copyLocked()
}

func (p *PricingPage) State() PricingState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyLocked()
}

func (p *PricingPage) copyLocked() PricingState {
	st := p.state
	st.Plans = append([]backend.Record{}, p.state.Plans...)
	return st
}
