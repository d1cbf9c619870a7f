package engine

import "context"

// MockPrompter returns scripted review decisions for tests and records the
// items it was shown.
type MockPrompter struct {
	Err       error
	Decisions []ReviewDecision
	Items     []ReviewItem
	next      int
}

// ReviewItem pops the next scripted decision. Once the script is
// exhausted it quits, mirroring a reviewer walking away.
func (m *MockPrompter) ReviewItem(_ context.Context, item ReviewItem) (ReviewDecision, error) {
	m.Items = append(m.Items, item)
	if m.Err != nil {
		return ReviewDecision{}, m.Err
	}
	if m.next >= len(m.Decisions) {
		return ReviewDecision{Action: ActionQuit}, nil
	}
	decision := m.Decisions[m.next]
	m.next++
	return decision, nil
}
