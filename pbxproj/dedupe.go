package pbxproj

import (
	"github.com/soapywu/pbxsync/pbxplist"
)

// DedupeResult summarizes what Deduplicate cleaned up.
type DedupeResult struct {
	DuplicateChildren   int // same identifier listed twice in one group
	ForeignMemberships  int // membership outside the designated keep-group
	DuplicateBuildFiles int // several build files for one file reference
	OrphanPhaseEntries  int // build-list entries whose build file is gone
}

func (r DedupeResult) Total() int {
	return r.DuplicateChildren + r.ForeignMemberships + r.DuplicateBuildFiles + r.OrphanPhaseEntries
}

// Deduplicate consolidates the cleanup the original one-off fix
// scripts performed after botched insertions. When keepGroup is set,
// the named files keep their membership only there; every group pass
// also drops repeated identifiers. Build-file records that duplicate
// an earlier record for the same reference are removed, and build
// phases are purged of entries that no longer resolve.
func (p *Project) Deduplicate(keepGroup string, files []string) DedupeResult {
	var result DedupeResult

	fileRefs := make(map[string]struct{}, len(files))
	for _, f := range files {
		if ref, found := p.findFileRef(f); found {
			fileRefs[ref] = struct{}{}
		}
	}
	keepKey := ""
	if keepGroup != "" {
		keepKey = p.groupKeyByName(keepGroup)
	}

	p.groupSection.ForeachWithFilter(func(groupKey string, v interface{}) pbxplist.IterateActionType {
		group, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		seen := make(map[string]struct{})
		result.DuplicateChildren += removeFromObjectList(group, "children", func(elem interface{}) bool {
			child, ok := elem.(pbxplist.Object)
			if !ok {
				return false
			}
			value := child.GetString("value")
			if _, dup := seen[value]; dup {
				return true
			}
			seen[value] = struct{}{}
			return false
		}, true)

		if keepKey != "" && groupKey != keepKey {
			result.ForeignMemberships += removeFromObjectList(group, "children", func(elem interface{}) bool {
				child, ok := elem.(pbxplist.Object)
				if !ok {
					return false
				}
				_, targeted := fileRefs[child.GetString("value")]
				return targeted
			}, true)
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)

	result.DuplicateBuildFiles = p.dropDuplicateBuildFiles()
	result.OrphanPhaseEntries = p.dropOrphanPhaseEntries()
	return result
}

func (p *Project) dropDuplicateBuildFiles() int {
	firstByRef := make(map[string]string)
	duplicates := make([]string, 0)
	p.buildFileSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		record, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		fileRef := record.GetString("fileRef")
		if fileRef == "" {
			return pbxplist.IterateActionContinue
		}
		if _, seen := firstByRef[fileRef]; seen {
			duplicates = append(duplicates, key)
		} else {
			firstByRef[fileRef] = key
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)

	for _, key := range duplicates {
		p.buildFileSection.Delete(key)
		p.buildFileSection.Delete(pbxplist.ToCommentKey(key))
	}
	return len(duplicates)
}

func (p *Project) dropOrphanPhaseEntries() int {
	removed := 0
	for _, isa := range []string{"PBXSourcesBuildPhase", "PBXResourcesBuildPhase", "PBXFrameworksBuildPhase", "PBXCopyFilesBuildPhase"} {
		section := p.objectSection.GetObject(isa)
		section.ForeachWithFilter(func(_ string, v interface{}) pbxplist.IterateActionType {
			phase, ok := v.(pbxplist.Object)
			if !ok {
				return pbxplist.IterateActionContinue
			}
			seen := make(map[string]struct{})
			removed += removeFromObjectList(phase, "files", func(elem interface{}) bool {
				child, ok := elem.(pbxplist.Object)
				if !ok {
					return false
				}
				value := child.GetString("value")
				if !p.buildFileSection.Has(value) {
					return true
				}
				if _, dup := seen[value]; dup {
					return true
				}
				seen[value] = struct{}{}
				return false
			}, true)
			return pbxplist.IterateActionContinue
		}, pbxplist.NonCommentsFilter)
	}
	return removed
}
