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
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/soapywu/pbxsync/pbxplist"
)

var (
	ErrFileExists    = errors.New("file already present in manifest")
	ErrFileNotFound  = errors.New("file not found in manifest")
	ErrGroupNotFound = errors.New("group not found in manifest")
	ErrPhaseNotFound = errors.New("build phase not found in manifest")
)

// Project is a parsed project manifest plus handles into the sections
// every mutation touches. All operations work on the in-memory tree;
// nothing reaches the file until Write.
type Project struct {
	filePath             string
	contents             pbxplist.Object
	rootSection          pbxplist.Object
	objectSection        pbxplist.Object
	groupSection         pbxplist.Object
	buildFileSection     pbxplist.Object
	fileReferenceSection pbxplist.Object
	nativeTargetSection  pbxplist.Object
	uuids                map[string]struct{}
	pathIndex            map[string]string // unquoted file path -> file reference uuid
}

func NewProject(filename string) *Project {
	return &Project{
		filePath:  filename,
		uuids:     make(map[string]struct{}),
		pathIndex: make(map[string]string),
	}
}

func (p *Project) Path() string {
	return p.filePath
}

func (p *Project) Contents() pbxplist.Object {
	return p.contents
}

func (p *Project) Parse() error {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.ParseBytes(data), "parse %s", p.filePath)
}

func (p *Project) ParseBytes(data []byte) error {
	contents, err := pbxplist.Parse(data)
	if err != nil {
		return err
	}
	p.contents = contents
	p.initSections()
	p.buildIndexes()
	return nil
}

func (p *Project) Dump(writer io.Writer) error {
	buffer := bytes.NewBuffer([]byte{})
	jsonEncoder := json.NewEncoder(buffer)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(p.contents); err != nil {
		return err
	}
	_, err := writer.Write(buffer.Bytes())
	return err
}

func (p *Project) initSections() {
	p.rootSection = p.contents.GetObject("project")
	p.objectSection = p.rootSection.GetObject("objects")
	p.groupSection = p.ensureSection("PBXGroup")
	p.buildFileSection = p.ensureSection("PBXBuildFile")
	p.fileReferenceSection = p.ensureSection("PBXFileReference")
	p.nativeTargetSection = p.ensureSection("PBXNativeTarget")
}

func (p *Project) ensureSection(isa string) pbxplist.Object {
	section := p.objectSection.GetObject(isa)
	if section.IsEmpty() && !p.objectSection.Has(isa) {
		section = pbxplist.NewObject()
		p.objectSection.Set(isa, section)
	}
	return section
}

// buildIndexes records every identifier already present, so fresh ones
// can be checked against them, and maps file paths to their reference
// identifiers for duplicate detection.
func (p *Project) buildIndexes() {
	uuids := make(map[string]struct{})
	p.objectSection.Foreach(func(_ string, v interface{}) pbxplist.IterateActionType {
		section, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		section.ForeachWithFilter(func(key string, _ interface{}) pbxplist.IterateActionType {
			if isManifestUUID(key) {
				uuids[key] = struct{}{}
			}
			return pbxplist.IterateActionContinue
		}, pbxplist.NonCommentsFilter)
		return pbxplist.IterateActionContinue
	})
	p.uuids = uuids

	pathIndex := make(map[string]string)
	p.fileReferenceSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		ref, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		if path := unquoted(ref.GetString("path")); path != "" {
			pathIndex[path] = key
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
	p.pathIndex = pathIndex
}

func isManifestUUID(key string) bool {
	if len(key) != 24 {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// generateUUID returns a fresh 24-character uppercase hex identifier
// that collides neither with the parsed manifest nor with identifiers
// issued earlier in this run.
func (p *Project) generateUUID() string {
	for {
		u, err := uuid.NewV4()
		if err != nil {
			continue
		}
		newUUID := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[0:24])
		if _, found := p.uuids[newUUID]; found {
			continue
		}
		p.uuids[newUUID] = struct{}{}
		return newUUID
	}
}

// HasFile reports whether a file reference with this path exists.
func (p *Project) HasFile(filePath string) bool {
	_, found := p.findFileRef(filePath)
	return found
}

func (p *Project) findFileRef(filePath string) (string, bool) {
	path := unquoted(filePath)
	if ref, found := p.pathIndex[path]; found {
		return ref, true
	}
	// fall back to a name match for references registered by basename
	found := ""
	p.fileReferenceSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		ref, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		if unquoted(ref.GetString("name")) == path || unquoted(ref.GetString("path")) == path {
			found = key
			return pbxplist.IterateActionBreak
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
	return found, found != ""
}

func (p *Project) groupByName(name string) pbxplist.Object {
	key := p.groupKeyByName(name)
	if key == "" {
		return pbxplist.NewObject()
	}
	return p.groupSection.GetObject(key)
}

func (p *Project) groupKeyByName(name string) (groupKey string) {
	p.groupSection.ForeachWithFilter(func(key string, value interface{}) pbxplist.IterateActionType {
		if comment, ok := value.(string); ok && comment == name {
			groupKey = pbxplist.FromCommentKey(key)
			return pbxplist.IterateActionBreak
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.OnlyCommentsFilter)
	return
}

func (p *Project) findTargetKey(name string) (targetKey string) {
	if p.nativeTargetSection.Has(name) {
		return name
	}
	p.nativeTargetSection.ForeachWithFilter(func(key string, value interface{}) pbxplist.IterateActionType {
		target, ok := value.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		if unquoted(target.GetString("name")) == name {
			targetKey = key
			return pbxplist.IterateActionBreak
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
	return
}

// buildPhase resolves which phase of a target carries the given name,
// e.g. "Sources" for the compile phase.
func (p *Project) buildPhase(name, target string) string {
	if target == "" {
		return ""
	}
	targetKey := p.findTargetKey(target)
	if targetKey == "" {
		return ""
	}
	nativeTarget := p.nativeTargetSection.GetObject(targetKey)
	buildPhases := nativeTarget.ForceGet("buildPhases")
	if buildPhases == nil {
		return ""
	}
	for _, buildPhase := range buildPhases.([]interface{}) {
		phase, ok := buildPhase.(pbxplist.Object)
		if !ok {
			continue
		}
		if phase.GetString("comment") == name {
			return phase.GetString("value")
		}
	}
	return ""
}

func (p *Project) buildPhaseObject(isa, name, target string) pbxplist.Object {
	section := p.objectSection.GetObject(isa)
	if section.IsEmpty() {
		return pbxplist.NewObject()
	}
	phaseKey := p.buildPhase(name, target)
	if target != "" && phaseKey == "" {
		return pbxplist.NewObject()
	}
	obj := pbxplist.NewObject()
	section.ForeachWithFilter(func(key string, value interface{}) pbxplist.IterateActionType {
		if phaseKey != "" && phaseKey != pbxplist.FromCommentKey(key) {
			return pbxplist.IterateActionContinue
		}
		if comment, ok := value.(string); ok && comment == name {
			obj = section.GetObject(pbxplist.FromCommentKey(key))
			return pbxplist.IterateActionBreak
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.OnlyCommentsFilter)
	return obj
}

func (p *Project) sourcesBuildPhaseObj(target string) pbxplist.Object {
	return p.buildPhaseObject("PBXSourcesBuildPhase", "Sources", target)
}

func (p *Project) resourcesBuildPhaseObj(target string) pbxplist.Object {
	return p.buildPhaseObject("PBXResourcesBuildPhase", "Resources", target)
}
