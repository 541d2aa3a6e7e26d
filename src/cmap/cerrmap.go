package cmap

// A Limiter is the interface that we use to release/acquire workers while waiting.
type Limiter interface {
	Acquire()
	Release()
}

// NewErrMap returns a map that extends Map with an error type, which callers can also wait on
// and receive if something goes wrong.
func NewErrMap[K comparable, V any](shardCount uint64, hasher func(K) uint64) *ErrMap[K, V] {
	return &ErrMap[K, V]{m: New[K, errV[V]](shardCount, hasher)}
}

type errV[V any] struct {
	Err error
	Val V
}

// An ErrMap extends Map with returned errors as a first-class concept.
type ErrMap[K comparable, V any] struct {
	m *Map[K, errV[V]]
	l Limiter
}

// WithLimiter attaches a Limiter that GetOrInit releases around a blocking
// wait, and returns the receiver for chaining.
func (m *ErrMap[K, V]) WithLimiter(l Limiter) *ErrMap[K, V] {
	m.l = l
	return m
}

// Add adds the new item to the map.
// It returns true if the item was inserted, false if it already existed (in which case it won't be inserted)
func (m *ErrMap[K, V]) Add(key K, val V) bool {
	return m.m.Add(key, errV[V]{Val: val})
}

// AddOrGet either adds a new item (if the key doesn't exist) or gets the existing one.
// It returns true if the item was inserted, false if it already existed (in which case it won't be inserted)
func (m *ErrMap[K, V]) AddOrGet(key K, f func() V) (V, bool, error) {
	v, present := m.m.AddOrGet(key, func() errV[V] { return errV[V]{Val: f()} })
	return v.Val, present, v.Err
}

// Set is the equivalent of `map[key] = val`.
// It always overwrites any key that existed before.
func (m *ErrMap[K, V]) Set(key K, val V) {
	m.m.Set(key, errV[V]{Val: val})
}

// SetError overwrites the key with the given error and wakes up anyone
// waiting on it. GetOrInit calls it on a failed init and evicts the entry
// immediately afterwards, so a woken waiter reads the error back only if it
// looks the key up before that eviction.
func (m *ErrMap[K, V]) SetError(key K, err error) {
	m.m.Set(key, errV[V]{Err: err})
}

// Get returns the value corresponding to the given key, or its zero value if the key doesn't exist in the map.
// If an error has been set for the key, that will be returned.
func (m *ErrMap[K, V]) Get(key K) (V, error) {
	v := m.m.Get(key)
	return v.Val, v.Err
}

// GetOrWait mirrors Map.GetOrWait: it returns the stored value/error if one
// is present, or a channel that closes once one is set, together with
// whether this call was the first to observe the key missing.
func (m *ErrMap[K, V]) GetOrWait(key K) (val V, wait <-chan struct{}, first bool, err error) {
	v, wait, first := m.m.GetOrWait(key)
	return v.Val, wait, first, v.Err
}

// GetOrInit returns the cached value for key, computing it with init if this
// call is the first to observe the key missing. Concurrent callers for the
// same key block until the first caller's init returns; on success they all
// receive its value. A failed init is not cached: the key is evicted right
// after the error is stored, so the next GetOrInit call retries init rather
// than replaying the same failure indefinitely. A waiter re-enters GetOrInit
// when it wakes, so one that arrives after the eviction does not see the
// error; if it is the first to find the key missing it runs init itself.
func (m *ErrMap[K, V]) GetOrInit(key K, init func() (V, error)) (V, error) {
	val, wait, first, err := m.GetOrWait(key)
	if wait == nil {
		return val, err
	}
	if !first {
		if m.l != nil {
			// Release the limiter for the duration we're waiting.
			m.l.Release()
			defer m.l.Acquire()
		}
		<-wait
		return m.GetOrInit(key, init)
	}
	val, err = init()
	if err != nil {
		m.SetError(key, err)
		m.m.Delete(key)
		return val, err
	}
	m.Set(key, val)
	return val, nil
}

// Range calls f for each key-value pair in the map.
// No particular consistency guarantees are made during iteration.
func (m *ErrMap[K, V]) Range(f func(key K, val V)) {
	m.m.Range(func(key K, val errV[V]) {
		if val.Err != nil {
			return // skip errors
		}
		f(key, val.Val)
	})
}
