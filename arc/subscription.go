package arc

// Subscription is the single cancellation capability used across the
// package: both EventBus and Observable hand one back on registration,
// so callers can pool handles from either source and cancel them
// uniformly (see SubscriptionBag).
type Subscription struct {
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel removes the one registration this handle was issued for.
// The captured reference is cleared on first use, so calling Cancel
// again is a no-op. A nil handle is also safe to cancel.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	cancel := s.cancel
	s.cancel = nil
	cancel()
}

// SubscriptionBag pools handles so an owner can release all of its
// registrations in one call, typically when the owning object is torn
// down by the host.
type SubscriptionBag struct {
	subs []*Subscription
}

// Add appends a handle to the bag. Nil handles are ignored.
func (b *SubscriptionBag) Add(s *Subscription) {
	if s == nil {
		return
	}
	b.subs = append(b.subs, s)
}

// Len reports how many handles the bag currently holds.
func (b *SubscriptionBag) Len() int {
	return len(b.subs)
}

// CancelAll cancels every held handle in insertion order, then empties
// the bag. Handles already cancelled individually are skipped by their
// own no-op guard.
func (b *SubscriptionBag) CancelAll() {
	for _, s := range b.subs {
		s.Cancel()
	}
	b.subs = nil
}
