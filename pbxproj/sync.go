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
	"github.com/pkg/errors"

	"github.com/soapywu/pbxsync/pbxplist"
)

// Adding a file is four writes that must all land or none:
//
//	PBXFileReference   the reference-table record
//	PBXBuildFile       the cross-reference pointing at it
//	PBXGroup children  the containment list
//	build phase files  the build-list
//
// Anchors are resolved before the first write, so a missing group or
// phase aborts with the tree untouched.

// AddSourceFile registers a source file in the reference table, the
// build-file table, the named containment group and the Sources build
// phase. A file whose path is already present is reported via
// ErrFileExists and nothing is written.
func (p *Project) AddSourceFile(filePath string, options FileOptions) (*FileRecord, error) {
	f := newFileRecord(filePath, options)
	phase := p.sourcesBuildPhaseObj(options.Target)
	if phase.IsEmpty() {
		return nil, errors.Wrap(ErrPhaseNotFound, "Sources")
	}
	return p.addFile(f, options, phase)
}

// AddResourceFile is AddSourceFile for the Resources build phase.
func (p *Project) AddResourceFile(filePath string, options FileOptions) (*FileRecord, error) {
	f := newFileRecord(filePath, options)
	f.Group = "Resources"
	phase := p.resourcesBuildPhaseObj(options.Target)
	if phase.IsEmpty() {
		return nil, errors.Wrap(ErrPhaseNotFound, "Resources")
	}
	return p.addFile(f, options, phase)
}

func (p *Project) addFile(f *FileRecord, options FileOptions, phase pbxplist.Object) (*FileRecord, error) {
	if p.HasFile(f.Path) {
		return nil, errors.Wrap(ErrFileExists, f.Path)
	}

	groupName := options.Group
	if groupName == "" {
		groupName = f.Group
	}
	group := p.groupByName(groupName)
	if group.IsEmpty() {
		if !options.CreateGroup {
			return nil, errors.Wrap(ErrGroupNotFound, groupName)
		}
		p.AddGroup(groupName, "", "")
		group = p.groupByName(groupName)
	}

	// anchors located; from here every write must happen
	f.FileRef = p.generateUUID()
	f.UUID = p.generateUUID()

	p.addToFileReferenceSection(f)
	p.addToBuildFileSection(f)
	addToObjectList(group, "children", groupChildEntry(f))
	addToObjectList(phase, "files", phaseFileEntry(f))

	p.pathIndex[unquoted(f.Path)] = f.FileRef
	return f, nil
}

// RemoveSourceFile undoes all four writes for the file with this path:
// build-list membership, containment membership, the build-file record
// and the file reference, in that order. Matching is by exact
// identifier resolved from the reference table, never by substring.
func (p *Project) RemoveSourceFile(filePath string, options FileOptions) (*FileRecord, error) {
	return p.removeFile(filePath, "PBXSourcesBuildPhase")
}

// RemoveResourceFile is RemoveSourceFile for the Resources phase.
func (p *Project) RemoveResourceFile(filePath string, options FileOptions) (*FileRecord, error) {
	return p.removeFile(filePath, "PBXResourcesBuildPhase")
}

func (p *Project) removeFile(filePath, phaseIsa string) (*FileRecord, error) {
	fileRef, found := p.findFileRef(filePath)
	if !found {
		return nil, errors.Wrap(ErrFileNotFound, filePath)
	}

	ref := p.fileReferenceSection.GetObject(fileRef)
	removed := &FileRecord{
		FileRef:  fileRef,
		Basename: unquoted(p.fileReferenceSection.GetString(pbxplist.ToCommentKey(fileRef))),
		Path:     unquoted(ref.GetString("path")),
	}

	buildFileUUIDs := p.buildFilesFor(fileRef)

	p.removeFromPhaseSection(phaseIsa, buildFileUUIDs)
	p.removeFromAllGroups(fileRef)
	for _, uuid := range buildFileUUIDs {
		p.buildFileSection.Delete(uuid)
		p.buildFileSection.Delete(pbxplist.ToCommentKey(uuid))
	}
	p.fileReferenceSection.Delete(fileRef)
	p.fileReferenceSection.Delete(pbxplist.ToCommentKey(fileRef))

	delete(p.pathIndex, removed.Path)
	// identifiers are never reused, so they stay in the uuid index
	return removed, nil
}

func (p *Project) buildFilesFor(fileRef string) []string {
	uuids := make([]string, 0, 1)
	p.buildFileSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		record, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		if record.GetString("fileRef") == fileRef {
			uuids = append(uuids, key)
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
	return uuids
}

func (p *Project) removeFromPhaseSection(phaseIsa string, buildFileUUIDs []string) {
	drop := make(map[string]struct{}, len(buildFileUUIDs))
	for _, uuid := range buildFileUUIDs {
		drop[uuid] = struct{}{}
	}
	section := p.objectSection.GetObject(phaseIsa)
	section.ForeachWithFilter(func(_ string, v interface{}) pbxplist.IterateActionType {
		phase, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		removeFromObjectList(phase, "files", func(elem interface{}) bool {
			child, ok := elem.(pbxplist.Object)
			if !ok {
				return false
			}
			_, match := drop[child.GetString("value")]
			return match
		}, true)
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
}

func (p *Project) removeFromAllGroups(fileRef string) {
	p.groupSection.ForeachWithFilter(func(_ string, v interface{}) pbxplist.IterateActionType {
		group, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		removeFromObjectList(group, "children", func(elem interface{}) bool {
			child, ok := elem.(pbxplist.Object)
			if !ok {
				return false
			}
			return child.GetString("value") == fileRef
		}, true)
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)
}

// AddGroup creates an empty containment group. When parent names an
// existing group the new one is linked into its children.
func (p *Project) AddGroup(name, path, parent string) string {
	groupUUID := p.generateUUID()
	group := pbxplist.NewObjectWithData([]pbxplist.SliceItem{
		pbxplist.NewObjectItem("isa", "PBXGroup"),
		pbxplist.NewObjectItem("children", []interface{}{}),
		pbxplist.NewObjectItem("name", quotedIfNeeded(name)),
		pbxplist.NewObjectItem("sourceTree", DEFAULT_SOURCETREE),
	})
	if path != "" {
		group.Set("path", quotedIfNeeded(path))
	}

	p.groupSection.Set(groupUUID, group)
	p.groupSection.Set(pbxplist.ToCommentKey(groupUUID), name)

	if parent != "" {
		if parentGroup := p.groupByName(parent); !parentGroup.IsEmpty() {
			addToObjectList(parentGroup, "children", pbxplist.CommentValue{
				Value:   groupUUID,
				Comment: name,
			}.ToObject())
		}
	}
	return groupUUID
}

// RemoveGroup drops a group record and its memberships in other
// groups. Children of the group are left in place.
func (p *Project) RemoveGroup(name string) bool {
	key := p.groupKeyByName(name)
	if key == "" {
		return false
	}
	p.removeFromAllGroups(key)
	p.groupSection.Delete(key)
	p.groupSection.Delete(pbxplist.ToCommentKey(key))
	return true
}

func (p *Project) addToFileReferenceSection(f *FileRecord) {
	p.fileReferenceSection.Set(f.FileRef, fileReferenceEntry(f))
	p.fileReferenceSection.Set(pbxplist.ToCommentKey(f.FileRef), f.Basename)
}

func (p *Project) addToBuildFileSection(f *FileRecord) {
	p.buildFileSection.Set(f.UUID, buildFileEntry(f))
	p.buildFileSection.Set(pbxplist.ToCommentKey(f.UUID), longComment(f))
}

func fileReferenceEntry(f *FileRecord) pbxplist.Object {
	entry := pbxplist.NewObjectWithData([]pbxplist.SliceItem{
		pbxplist.NewObjectItem("isa", "PBXFileReference"),
	})
	if f.FileEncoding != 0 {
		entry.Set("fileEncoding", f.FileEncoding)
	}
	entry.Set("lastKnownFileType", f.LastKnownFileType)
	if f.Basename != f.Path {
		entry.Set("name", quotedIfNeeded(f.Basename))
	}
	entry.Set("path", quotedIfNeeded(f.Path))
	entry.Set("sourceTree", f.SourceTree)
	return entry
}

func buildFileEntry(f *FileRecord) pbxplist.Object {
	entry := pbxplist.NewObjectWithData([]pbxplist.SliceItem{
		pbxplist.NewObjectItem("isa", "PBXBuildFile"),
		pbxplist.NewObjectItem("fileRef", f.FileRef),
		pbxplist.NewObjectItem(pbxplist.ToCommentKey("fileRef"), f.Basename),
	})
	if !f.Settings.IsEmpty() {
		entry.Set("settings", f.Settings)
	}
	return entry
}

func groupChildEntry(f *FileRecord) pbxplist.Object {
	return pbxplist.CommentValue{
		Value:   f.FileRef,
		Comment: f.Basename,
	}.ToObject()
}

func phaseFileEntry(f *FileRecord) pbxplist.Object {
	return pbxplist.CommentValue{
		Value:   f.UUID,
		Comment: longComment(f),
	}.ToObject()
}

// longComment is the build-list annotation, e.g. "Foo.swift in Sources".
func longComment(f *FileRecord) string {
	return f.Basename + " in " + f.Group
}

func addToObjectList(obj pbxplist.Object, key string, val interface{}) {
	if obj.SliceMap == nil {
		return
	}
	list := obj.ForceGet(key)
	if list == nil {
		obj.Set(key, []interface{}{val})
		return
	}
	obj.Set(key, append(list.([]interface{}), val))
}

func removeFromObjectList(obj pbxplist.Object, key string, condition func(interface{}) bool, all bool) int {
	if obj.IsEmpty() {
		return 0
	}
	list, ok := obj.ForceGet(key).([]interface{})
	if !ok {
		return 0
	}

	removed := 0
	kept := make([]interface{}, 0, len(list))
	for _, v := range list {
		if condition(v) && (all || removed == 0) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	if removed > 0 {
		obj.Set(key, kept)
	}
	return removed
}
