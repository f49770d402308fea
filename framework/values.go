package framework

import "sync"

// Values holds state shared by the hooks and cases of one group. Each group gets a fresh
// Values for every run, chained to its parent group's: Get looks in the enclosing groups if
// this one has no value for the key, and Set always writes to this group, shadowing any outer
// value with the same key.
//
// Nothing resets Values between cases. A group that needs each case to start from a clean
// state should reset it in a before-each hook.
type Values struct {
	parent *Values
	values map[string]interface{}
	lock   sync.Mutex
}

func newValues(parent *Values) *Values {
	return &Values{parent: parent, values: make(map[string]interface{})}
}

func (v *Values) Get(key string) (interface{}, bool) {
	for s := v; s != nil; s = s.parent {
		s.lock.Lock()
		value, ok := s.values[key]
		s.lock.Unlock()
		if ok {
			return value, true
		}
	}
	return nil, false
}

// GetString returns the value for the key if it is a string, or "" otherwise.
func (v *Values) GetString(key string) string {
	value, _ := v.Get(key)
	s, _ := value.(string)
	return s
}

func (v *Values) Set(key string, value interface{}) {
	v.lock.Lock()
	v.values[key] = value
	v.lock.Unlock()
}

// Delete removes the key from this group only.
func (v *Values) Delete(key string) {
	v.lock.Lock()
	delete(v.values, key)
	v.lock.Unlock()
}

// Reset removes every key from this group only.
func (v *Values) Reset() {
	v.lock.Lock()
	v.values = make(map[string]interface{})
	v.lock.Unlock()
}
