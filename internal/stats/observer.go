package stats

// Observer receives aggregation events in arrival order.
// Calls are never concurrent.
type Observer interface {
	// TotalUpdated is called with the new running total after each success.
	TotalUpdated(total int64)

	// ProjectUpdated is called after TotalUpdated with the project's tips.
	ProjectUpdated(id string, tips int64)

	// ProjectFailed is called when the stats of a project could not be loaded.
	ProjectFailed(id string, err error)
}

// NopObserver ignores every event. Embed it to implement only some events.
type NopObserver struct{}

// TotalUpdated implements Observer.
func (NopObserver) TotalUpdated(int64) {}

// ProjectUpdated implements Observer.
func (NopObserver) ProjectUpdated(string, int64) {}

// ProjectFailed implements Observer.
func (NopObserver) ProjectFailed(string, error) {}

// multiObserver fans events out to several observers in order.
type multiObserver []Observer

// Observers combines observers into one. Nil observers are skipped.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) TotalUpdated(total int64) {
	for _, o := range m {
		o.TotalUpdated(total)
	}
}

func (m multiObserver) ProjectUpdated(id string, tips int64) {
	for _, o := range m {
		o.ProjectUpdated(id, tips)
	}
}

func (m multiObserver) ProjectFailed(id string, err error) {
	for _, o := range m {
		o.ProjectFailed(id, err)
	}
}
