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

package pbxproj

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/soapywu/pbxsync/pbxplist"
)

const (
	DEFAULT_SOURCETREE = "\"<group>\""
	DEFAULT_GROUP      = "Resources"
	DEFAULT_FILETYPE   = "unknown"
)

var FILETYPE_BY_EXTENSION = map[string]string{
	"a":           "archive.ar",
	"app":         "wrapper.application",
	"appex":       "wrapper.app-extension",
	"bundle":      "wrapper.plug-in",
	"dylib":       "compiled.mach-o.dylib",
	"framework":   "wrapper.framework",
	"h":           "sourcecode.c.h",
	"m":           "sourcecode.c.objc",
	"markdown":    "text",
	"mdimporter":  "wrapper.cfbundle",
	"octest":      "wrapper.cfbundle",
	"pch":         "sourcecode.c.h",
	"plist":       "text.plist.xml",
	"png":         "image.png",
	"sh":          "text.script.sh",
	"swift":       "sourcecode.swift",
	"tbd":         "sourcecode.text-based-dylib-definition",
	"xcassets":    "folder.assetcatalog",
	"xcconfig":    "text.xcconfig",
	"xcdatamodel": "wrapper.xcdatamodel",
	"xcodeproj":   "wrapper.pb-project",
	"xctest":      "wrapper.cfbundle",
	"xib":         "file.xib",
	"strings":     "text.plist.strings",
}

var GROUP_BY_FILETYPE = map[string]string{
	"archive.ar":                             "Frameworks",
	"compiled.mach-o.dylib":                  "Frameworks",
	"sourcecode.text-based-dylib-definition": "Frameworks",
	"wrapper.framework":                      "Frameworks",
	"sourcecode.c.h":                         "Resources",
	"sourcecode.c.objc":                      "Sources",
	"sourcecode.swift":                       "Sources",
}

const DEFAULT_ENCODING_VALUE = 4

var ENCODING_BY_FILETYPE = map[string]int{
	"sourcecode.c.h":     DEFAULT_ENCODING_VALUE,
	"sourcecode.c.objc":  DEFAULT_ENCODING_VALUE,
	"sourcecode.swift":   DEFAULT_ENCODING_VALUE,
	"text":               DEFAULT_ENCODING_VALUE,
	"text.plist.xml":     DEFAULT_ENCODING_VALUE,
	"text.script.sh":     DEFAULT_ENCODING_VALUE,
	"text.xcconfig":      DEFAULT_ENCODING_VALUE,
	"text.plist.strings": DEFAULT_ENCODING_VALUE,
}

var unquotedRegex = regexp.MustCompile(`(^")|("$)`)

func unquoted(text string) string {
	if text == "" {
		return text
	}
	return unquotedRegex.ReplaceAllString(text, "")
}

// quotedIfNeeded wraps a value in quotes when it contains characters
// the manifest grammar cannot carry bare.
func quotedIfNeeded(text string) string {
	if text == "" {
		return `""`
	}
	if strings.HasPrefix(text, `"`) {
		return text
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '/' || c == '-' || c == '+' || c == '$':
		default:
			return `"` + text + `"`
		}
	}
	return text
}

// FileOptions tune how a file joins the manifest. Group names the
// containment group; the build phase is chosen by the operation.
type FileOptions struct {
	LastKnownFileType string
	SourceTree        string
	Target            string
	Group             string
	CreateGroup       bool
	Weak              bool
	CompilerFlags     string
}

// FileRecord carries one artifact through the four dependent writes.
// FileRef identifies the reference-table record, UUID the build-file
// record pointing back at it.
type FileRecord struct {
	Basename          string
	Path              string
	FileRef           string
	UUID              string
	LastKnownFileType string
	SourceTree        string
	FileEncoding      int
	Group             string
	Target            string
	Settings          pbxplist.Object
}

func newFileRecord(filePath string, options FileOptions) *FileRecord {
	f := FileRecord{
		Basename: filepath.Base(filePath),
		Path:     filepath.ToSlash(filePath),
		Target:   options.Target,
	}

	if options.LastKnownFileType != "" {
		f.LastKnownFileType = options.LastKnownFileType
	} else {
		f.LastKnownFileType = detectType(filePath)
	}
	f.Group = detectGroup(f.LastKnownFileType)
	f.FileEncoding = detectEncoding(f.LastKnownFileType)

	if options.SourceTree != "" {
		f.SourceTree = options.SourceTree
	} else {
		f.SourceTree = DEFAULT_SOURCETREE
	}

	if options.Weak {
		if f.Settings.IsEmpty() {
			f.Settings = pbxplist.NewObject()
		}
		addToObjectList(f.Settings, "ATTRIBUTES", "Weak")
	}
	if options.CompilerFlags != "" {
		if f.Settings.IsEmpty() {
			f.Settings = pbxplist.NewObject()
		}
		f.Settings.Set("COMPILER_FLAGS", `"`+options.CompilerFlags+`"`)
	}
	return &f
}

func detectType(filePath string) string {
	ext := filepath.Ext(filePath)
	if ext == "" {
		return DEFAULT_FILETYPE
	}
	filetype, found := FILETYPE_BY_EXTENSION[strings.ToLower(ext[1:])]
	if !found {
		return DEFAULT_FILETYPE
	}
	return filetype
}

func detectGroup(filetype string) string {
	groupName, ok := GROUP_BY_FILETYPE[unquoted(filetype)]
	if !ok {
		return DEFAULT_GROUP
	}
	return groupName
}

func detectEncoding(filetype string) int {
	encoding, ok := ENCODING_BY_FILETYPE[unquoted(filetype)]
	if !ok {
		return 0
	}
	return encoding
}
