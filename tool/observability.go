package tool

// InvokeObservation captures one registry-level invocation outcome.
type InvokeObservation struct {
	InvocationID string
	ToolName     string
	DurationMS   int64
	Success      bool
	ErrorCode    string
}

// Observer receives tool-level observability events. Implementations must be
// safe for concurrent use; the registry calls them inline after each
// invocation.
type Observer interface {
	ObserveInvoke(observation InvokeObservation)
}

type noopObserver struct{}

func (noopObserver) ObserveInvoke(InvokeObservation) {}

type multiObserver struct {
	observers []Observer
}

func (m multiObserver) ObserveInvoke(observation InvokeObservation) {
	for _, observer := range m.observers {
		if observer != nil {
			observer.ObserveInvoke(observation)
		}
	}
}

// MultiObserver fans one observation out to several observers.
func MultiObserver(observers ...Observer) Observer {
	filtered := make([]Observer, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			filtered = append(filtered, observer)
		}
	}
	switch len(filtered) {
	case 0:
		return noopObserver{}
	case 1:
		return filtered[0]
	default:
		return multiObserver{observers: filtered}
	}
}
