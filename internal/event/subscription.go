package event

// Subscription is the handle returned by On. It groups the registrations of
// one handler for every name passed to On.
type Subscription struct {
	id    string
	names []string
	bus   *Bus
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Names returns the event names the handler was registered for.
func (s *Subscription) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Cancel removes the subscription from its bus.
// Cancelling twice, or after a Reset already dropped it, is a no-op.
func (s *Subscription) Cancel() {
	_ = s.bus.Off(s)
}
