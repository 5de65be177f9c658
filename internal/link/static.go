package link

// Static is a Network for deployments where connectivity is managed
// outside the agent (wired links, containers). It always reports
// Connected, so the supervisor never attempts anything.
type Static struct {
	addr string
}

// NewStatic creates a Network that is permanently connected.
func NewStatic(addr string) *Static { return &Static{addr: addr} }

func (s *Static) Status() State     { return Connected }
func (s *Static) Begin() error      { return nil }
func (s *Static) LocalAddr() string { return s.addr }
