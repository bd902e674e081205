package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// Defaults applied when the config leaves rate limiting unset. Generous
// enough for one person chatting, tight enough to blunt scripted abuse.
const (
	defaultRPS   = 5
	defaultBurst = 10
)

// limiterPool holds one token bucket per client identity. Identities are
// IPs resolved by ResolveClientIdentity, so the map stays small for a
// single-frontend deployment and entries are never evicted.
type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      SecConfig
}

func (p *limiterPool) get(identity string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limiters == nil {
		p.limiters = make(map[string]*rate.Limiter)
	}
	if l, ok := p.limiters[identity]; ok {
		return l
	}
	rps := p.cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := p.cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.limiters[identity] = l
	return l
}

// Allow reports whether the identity may make another request now.
func (p *limiterPool) Allow(identity string) bool {
	return p.get(identity).Allow()
}
