// Package pbxplist parses and re-emits the NeXT-style text plist used
// by Xcode project manifests. The tree is an ordered Object hierarchy;
// trailing /* ... */ comments are kept next to their key under a
// "<key>_comment" entry so a rewrite reproduces the original text.
package pbxplist

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

type IterateActionType = int8

const (
	IterateActionContinue IterateActionType = iota
	IterateActionBreak
)

type ObjectItem = SliceItem

type Object struct {
	*SliceMap
}

func NewObjectItem(key string, value interface{}) ObjectItem {
	return SliceItem{key, value}
}

func NewObject() Object {
	return Object{
		SliceMap: NewSliceMap(),
	}
}

func NewObjectWithData(items []ObjectItem) Object {
	o := NewObject()
	for _, item := range items {
		o.Set(item.key, item.data)
	}
	return o
}

func (o Object) toMarshalJSONData() map[string]interface{} {
	dataMap := make(map[string]interface{})
	o.Foreach(func(key string, val interface{}) IterateActionType {
		obj, ok := val.(Object)
		if ok {
			dataMap[key] = obj.toMarshalJSONData()
		} else {
			dataMap[key] = val
		}
		return IterateActionContinue
	})
	return dataMap
}

func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toMarshalJSONData())
}

func (o Object) IsEmpty() bool {
	if o.SliceMap == nil || o.sl == nil {
		return true
	}
	return o.Size() == 0
}

func (o Object) GetObject(key string) Object {
	if value, ok := o.Get(key); ok {
		if obj, ok := value.(Object); ok {
			return obj
		}
	}
	return NewObject()
}

func (o Object) GetString(key string) string {
	if value, ok := o.Get(key); ok {
		switch v := value.(type) {
		case string:
			return v
		default:
			return ""
		}
	}
	return ""
}

// GetInt parses numeric values on demand; the tree stores scalar
// tokens as their original text.
func (o Object) GetInt(key string) int {
	if value, ok := o.Get(key); ok {
		switch v := value.(type) {
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		case int, int8, int16, int32, int64:
			return int(reflect.ValueOf(value).Int())
		}
	}
	return 0
}

type ApplyFunc = func(key string, val interface{}) IterateActionType
type FilterFunc = func(key string, val interface{}) bool

func (o Object) Foreach(apply ApplyFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		if item.data == nil {
			continue
		}
		action := apply(item.key.(string), item.data)
		if action == IterateActionBreak {
			break
		}
	}
}

func (o Object) ForeachWithFilter(apply ApplyFunc, filter FilterFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		key := item.key.(string)
		val := item.data
		if val == nil {
			continue
		}
		if filter(key, val) {
			action := apply(key, val)
			if action == IterateActionBreak {
				break
			}
		}
	}
}

// CommentValue is an array element of the form "UUID /* name */".
type CommentValue struct {
	Value   string
	Comment string
}

func (c CommentValue) ToObject() Object {
	return NewObjectWithData([]SliceItem{
		NewObjectItem("value", c.Value),
		NewObjectItem("comment", c.Comment),
	})
}

const commentKeySuffix = "_comment"

func ToCommentKey(key string) string {
	return key + commentKeySuffix
}

func FromCommentKey(key string) string {
	return strings.TrimSuffix(key, commentKeySuffix)
}

func IsCommentKey(key string) bool {
	return strings.HasSuffix(key, commentKeySuffix)
}

func NonCommentsFilter(key string, _ interface{}) bool {
	return !IsCommentKey(key)
}

func OnlyCommentsFilter(key string, _ interface{}) bool {
	return IsCommentKey(key)
}
