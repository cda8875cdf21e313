package pbxplist

type mapItem struct {
	data interface{}
	idx  int
}

type SliceItem struct {
	key  interface{}
	data interface{}
}

// SliceMap is a map that remembers insertion order. Manifest sections
// are order-sensitive, so plain Go maps cannot hold them.
type SliceMap struct {
	mp map[interface{}]*mapItem
	sl []*SliceItem
}

func NewSliceMap() *SliceMap {
	return &SliceMap{
		mp: make(map[interface{}]*mapItem),
		sl: make([]*SliceItem, 0),
	}
}

func (m *SliceMap) ForceGet(key interface{}) interface{} {
	v, found := m.mp[key]
	if found {
		return v.data
	}
	return nil
}

func (m *SliceMap) Get(key interface{}) (interface{}, bool) {
	v, found := m.mp[key]
	if found {
		return v.data, true
	}
	return nil, false
}

func (m *SliceMap) Set(key, v interface{}) {
	old, found := m.mp[key]
	if found {
		m.mp[key] = &mapItem{
			data: v,
			idx:  old.idx,
		}
		m.sl[old.idx] = &SliceItem{
			data: v,
			key:  key,
		}
	} else {
		m.sl = append(m.sl, &SliceItem{key: key, data: v})
		m.mp[key] = &mapItem{
			data: v,
			idx:  len(m.sl) - 1,
		}
	}
}

func (m *SliceMap) Has(key interface{}) bool {
	_, found := m.mp[key]
	return found
}

// Delete removes key and reindexes every item behind it. The stored
// indices must stay in sync with the slice or later deletes splice the
// wrong element.
func (m *SliceMap) Delete(key interface{}) {
	old, found := m.mp[key]
	if !found {
		return
	}
	m.sl = append(m.sl[0:old.idx], m.sl[old.idx+1:]...)
	delete(m.mp, key)
	for i := old.idx; i < len(m.sl); i++ {
		m.mp[m.sl[i].key].idx = i
	}
}

func (m *SliceMap) Clear() {
	m.mp = make(map[interface{}]*mapItem)
	m.sl = make([]*SliceItem, 0)
}

func (m *SliceMap) Size() int {
	return len(m.sl)
}

func (m *SliceMap) Items() []*SliceItem {
	return m.sl
}
