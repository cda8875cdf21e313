/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package pbxplist

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const writerIndent = "\t"

type WriterOption func(w *Writer)

func WithOmitEmpty() WriterOption {
	return func(w *Writer) {
		w.omitEmptyValues = true
	}
}

// Writer re-emits a parsed manifest tree as Xcode-formatted text.
// Every brace and parenthesis it opens it also closes, so the output
// is balanced by construction.
type Writer struct {
	sb              strings.Builder
	omitEmptyValues bool
	contents        Object
	indentLevel     int
}

func NewWriter(contents Object, options ...WriterOption) *Writer {
	w := &Writer{
		contents: contents,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

func (w *Writer) Bytes() []byte {
	w.sb.Reset()
	w.indentLevel = 0
	w.writeHeadComment()
	w.writeProject()
	return []byte(w.sb.String())
}

func indent(x int) string {
	return strings.Repeat(writerIndent, x)
}

func getComment(key string, parent Object) string {
	return parent.GetString(ToCommentKey(key))
}

func (w *Writer) write(format string, args ...interface{}) {
	w.sb.WriteString(indent(w.indentLevel))
	fmt.Fprintf(&w.sb, format, args...)
}

func (w *Writer) writeNoIndent(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
}

func (w *Writer) writeHeadComment() {
	comment := w.contents.GetString("headComment")
	if comment != "" {
		w.writeNoIndent("// %s\n", comment)
	}
}

func (w *Writer) writeProject() {
	proj := w.contents.GetObject("project")

	w.write("{\n")
	w.indentLevel++

	proj.ForeachWithFilter(func(key string, val interface{}) IterateActionType {
		cmt := getComment(key, proj)
		switch {
		case isArray(val):
			w.writeArray(toArray(val), key)
		case isObject(val):
			w.write("%s = {\n", key)
			w.indentLevel++
			if key == "objects" {
				w.writeObjectsSections(toObject(val))
			} else {
				w.writeObject(toObject(val))
			}
			w.indentLevel--
			w.write("};\n")
		default:
			w.writeScalarEntry(key, val, cmt)
		}
		return IterateActionContinue
	}, NonCommentsFilter)

	w.indentLevel--
	w.write("}\n")
}

func (w *Writer) writeScalarEntry(key string, val interface{}, cmt string) {
	str, ok := scalarString(val)
	if !ok {
		return
	}
	if w.omitEmptyValues && str == "" {
		return
	}
	if cmt != "" {
		w.write("%s = %s /* %s */;\n", key, str, cmt)
	} else {
		w.write("%s = %s;\n", key, str)
	}
}

func (w *Writer) writeObject(obj Object) {
	obj.ForeachWithFilter(func(key string, val interface{}) IterateActionType {
		cmt := getComment(key, obj)
		switch {
		case isArray(val):
			w.writeArray(toArray(val), key)
		case isObject(val):
			w.write("%s = {\n", key)
			w.indentLevel++
			w.writeObject(toObject(val))
			w.indentLevel--
			w.write("};\n")
		default:
			w.writeScalarEntry(key, val, cmt)
		}
		return IterateActionContinue
	}, NonCommentsFilter)
}

func (w *Writer) writeObjectsSections(obj Object) {
	obj.Foreach(func(key string, val interface{}) IterateActionType {
		if !isObject(val) {
			return IterateActionContinue
		}
		section := toObject(val)
		if section.IsEmpty() {
			return IterateActionContinue
		}
		w.writeNoIndent("\n")
		w.writeNoIndent("/* Begin %s section */\n", key)
		w.writeSection(section)
		w.writeNoIndent("/* End %s section */\n", key)
		return IterateActionContinue
	})
}

func (w *Writer) writeArray(arr []interface{}, name string) {
	w.write("%s = (\n", name)
	w.indentLevel++

	for _, elem := range arr {
		switch {
		case isObject(elem):
			val := toObject(elem)
			value := val.GetString("value")
			comment := val.GetString("comment")
			if value != "" && comment != "" {
				w.write("%s /* %s */,\n", value, comment)
			} else {
				w.write("{\n")
				w.indentLevel++
				w.writeObject(val)
				w.indentLevel--
				w.write("},\n")
			}
		default:
			if str, ok := scalarString(elem); ok {
				w.write("%s,\n", str)
			}
		}
	}
	w.indentLevel--
	w.write(");\n")
}

// writeSection writes one isa section. PBXBuildFile and
// PBXFileReference records stay on a single line, the way Xcode keeps
// them.
func (w *Writer) writeSection(section Object) {
	section.ForeachWithFilter(func(key string, val interface{}) IterateActionType {
		if !isObject(val) {
			return IterateActionContinue
		}
		cmt := getComment(key, section)
		obj := toObject(val)
		isa := obj.GetString("isa")
		if isa == "PBXBuildFile" || isa == "PBXFileReference" {
			w.write("%s\n", inlineObject(key, cmt, obj, w.omitEmptyValues))
		} else {
			if cmt != "" {
				w.write("%s /* %s */ = {\n", key, cmt)
			} else {
				w.write("%s = {\n", key)
			}
			w.indentLevel++
			w.writeObject(obj)
			w.indentLevel--
			w.write("};\n")
		}
		return IterateActionContinue
	}, NonCommentsFilter)
}

func inlineObject(name, desc string, ref Object, omitEmpty bool) string {
	var sb strings.Builder
	if desc != "" {
		fmt.Fprintf(&sb, "%s /* %s */ = {", name, desc)
	} else {
		fmt.Fprintf(&sb, "%s = {", name)
	}
	writeInlineBody(&sb, ref, omitEmpty)
	sb.WriteString("};")
	return sb.String()
}

func writeInlineBody(sb *strings.Builder, ref Object, omitEmpty bool) {
	ref.ForeachWithFilter(func(key string, val interface{}) IterateActionType {
		cmt := getComment(key, ref)
		switch {
		case isArray(val):
			fmt.Fprintf(sb, "%s = (", key)
			for _, elem := range toArray(val) {
				if obj, ok := elem.(Object); ok && obj.GetString("value") != "" {
					fmt.Fprintf(sb, "%s /* %s */, ", obj.GetString("value"), obj.GetString("comment"))
				} else if str, ok := scalarString(elem); ok {
					fmt.Fprintf(sb, "%s, ", str)
				}
			}
			sb.WriteString("); ")
		case isObject(val):
			fmt.Fprintf(sb, "%s = {", key)
			writeInlineBody(sb, toObject(val), omitEmpty)
			sb.WriteString("}; ")
		default:
			str, ok := scalarString(val)
			if !ok {
				return IterateActionContinue
			}
			if str == "" && omitEmpty {
				return IterateActionContinue
			}
			if cmt != "" {
				fmt.Fprintf(sb, "%s = %s /* %s */; ", key, str, cmt)
			} else {
				fmt.Fprintf(sb, "%s = %s; ", key, str)
			}
		}
		return IterateActionContinue
	}, NonCommentsFilter)
}

func isObject(val interface{}) bool {
	_, ok := val.(Object)
	return ok
}

func toObject(val interface{}) Object {
	return val.(Object)
}

func isArray(val interface{}) bool {
	_, ok := val.([]interface{})
	return ok
}

func toArray(val interface{}) []interface{} {
	return val.([]interface{})
}

func scalarString(val interface{}) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), true
	}
	return "", false
}
