package rcrelay

// compiledFilter selects events by type. Exclusion wins over inclusion; an
// empty include set admits every type.
type compiledFilter struct {
	include map[EventType]struct{}
	exclude map[EventType]struct{}
}

func newCompiledFilter(include, exclude []EventType) *compiledFilter {
	f := &compiledFilter{}
	if len(include) > 0 {
		f.include = typeSet(include)
	}
	if len(exclude) > 0 {
		f.exclude = typeSet(exclude)
	}
	return f
}

func typeSet(types []EventType) map[EventType]struct{} {
	set := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Allows reports whether events of type t pass the filter.
func (f *compiledFilter) Allows(t EventType) bool {
	if f == nil {
		return true
	}
	if _, ok := f.exclude[t]; ok {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	_, ok := f.include[t]
	return ok
}

// eventGate applies the output settings shared by the watcher and the
// batch parser to each parsed event.
type eventGate struct {
	filter              *compiledFilter
	omitRawLine         bool
	includeUnrecognized bool
}

// admit reports whether ev should be delivered and prepares it for delivery.
func (g eventGate) admit(ev *Event, line string) bool {
	if !ev.Recognized && !g.includeUnrecognized {
		return false
	}
	if !g.filter.Allows(ev.Type) {
		return false
	}
	if g.omitRawLine {
		ev.Raw = ""
	} else {
		ev.Raw = line
	}
	return true
}
