package observability

import "context"

// MultiObserver fans events out to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil and NoOpObserver entries.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		switch obs.(type) {
		case nil, NoOpObserver:
			continue
		}
		filtered = append(filtered, obs)
	}
	return &MultiObserver{observers: filtered}
}

// Len reports how many observers receive events.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
