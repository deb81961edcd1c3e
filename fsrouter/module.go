package fsrouter

import (
	"github.com/vitalvas/fsroute/route"
)

// Module is a loaded route file: export name to exported value.
type Module map[string]any

// Slot names a position a handler can occupy in a module.
type Slot string

// SlotDefault holds the module's default export.
const SlotDefault Slot = "default"

// DefaultExport is the module key read for SlotDefault.
const DefaultExport = "default"

// Slots lists every slot in assembly order.
var Slots = func() []Slot {
	out := make([]Slot, 0, len(route.NamedMethods)+1)
	for _, m := range route.NamedMethods {
		out = append(out, Slot(m))
	}
	return append(out, SlotDefault)
}()

// Method returns the method a slot seeds a route with. The default slot
// seeds route.MethodAll.
func (s Slot) Method() route.Method {
	if s == SlotDefault {
		return route.MethodAll
	}
	return route.Method(s)
}

// Export is one populated slot.
type Export struct {
	Slot Slot
	// Name is the module key the value was read from, e.g. "GET".
	Name  string
	Value any
}

// Exports builds the slot map of mod, in Slots order. A nil value leaves
// the slot empty.
func Exports(mod Module) []Export {
	var out []Export
	for _, s := range Slots {
		if name, v, ok := lookupSlot(mod, s); ok {
			out = append(out, Export{Slot: s, Name: name, Value: v})
		}
	}
	return out
}

func lookupSlot(mod Module, s Slot) (string, any, bool) {
	if s == SlotDefault {
		v := mod[DefaultExport]
		return DefaultExport, v, v != nil
	}
	upper := s.Method().Upper()
	if v := mod[upper]; v != nil {
		return upper, v, true
	}
	lower := string(s)
	if v := mod[lower]; v != nil {
		return lower, v, true
	}
	return "", nil, false
}
