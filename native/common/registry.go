package common

// StaticRegistry is a configuration-backed PauseView and OperatorView. An
// empty operator set grants every principal.
type StaticRegistry struct {
	paused    map[string]bool
	operators map[[20]byte]bool
}

func NewStaticRegistry(pausedModules []string, operators [][20]byte) *StaticRegistry {
	r := &StaticRegistry{
		paused:    make(map[string]bool, len(pausedModules)),
		operators: make(map[[20]byte]bool, len(operators)),
	}
	for _, module := range pausedModules {
		r.paused[module] = true
	}
	for _, op := range operators {
		r.operators[op] = true
	}
	return r
}

func (r *StaticRegistry) IsPaused(module string) bool {
	if r == nil {
		return false
	}
	return r.paused[module]
}

func (r *StaticRegistry) Allowed(module string, principal [20]byte) bool {
	if r == nil || len(r.operators) == 0 {
		return true
	}
	return r.operators[principal]
}
