package pbxproj

import (
	"fmt"

	"github.com/soapywu/pbxsync/pbxplist"
)

// Inconsistency is one violated manifest invariant.
type Inconsistency struct {
	Kind   string
	UUID   string
	Detail string
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Kind, i.UUID, i.Detail)
}

const (
	KindDanglingFileRef    = "dangling-file-reference"
	KindDanglingGroupChild = "dangling-group-child"
	KindDanglingBuildEntry = "dangling-build-list-entry"
	KindDuplicateChild     = "duplicate-group-child"
	KindDuplicateBuildUse  = "duplicate-build-list-entry"
	KindUnbuiltBuildFile   = "build-file-in-no-phase"
	KindUngroupedFile      = "file-reference-in-no-group"
)

// Verify checks the four-way consistency the mutation operations are
// supposed to maintain: every cross-reference resolves, no list holds
// an identifier twice, every build file is scheduled exactly once and
// every file reference belongs to a containment group.
func (p *Project) Verify() []Inconsistency {
	var report []Inconsistency

	phaseUse := p.collectPhaseUse(&report)
	groupUse := p.collectGroupUse(&report)

	p.buildFileSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		record, ok := v.(pbxplist.Object)
		if !ok {
			return pbxplist.IterateActionContinue
		}
		fileRef := record.GetString("fileRef")
		if fileRef == "" || !p.fileReferenceSection.Has(fileRef) {
			report = append(report, Inconsistency{
				Kind:   KindDanglingFileRef,
				UUID:   key,
				Detail: fmt.Sprintf("build file points at missing reference %s", fileRef),
			})
		}
		if phaseUse[key] == 0 {
			report = append(report, Inconsistency{
				Kind:   KindUnbuiltBuildFile,
				UUID:   key,
				Detail: "build file is in no build phase",
			})
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)

	p.fileReferenceSection.ForeachWithFilter(func(key string, v interface{}) pbxplist.IterateActionType {
		if groupUse[key] == 0 {
			report = append(report, Inconsistency{
				Kind:   KindUngroupedFile,
				UUID:   key,
				Detail: "file reference is in no group",
			})
		}
		return pbxplist.IterateActionContinue
	}, pbxplist.NonCommentsFilter)

	return report
}

// collectPhaseUse walks every build phase's files list, reporting
// entries that do not resolve to a build file and entries repeated
// within one list, and returns the use count per build file.
func (p *Project) collectPhaseUse(report *[]Inconsistency) map[string]int {
	use := make(map[string]int)
	p.objectSection.Foreach(func(isa string, v interface{}) pbxplist.IterateActionType {
		section, ok := v.(pbxplist.Object)
		if !ok || !isBuildPhaseIsa(isa) {
			return pbxplist.IterateActionContinue
		}
		section.ForeachWithFilter(func(phaseKey string, pv interface{}) pbxplist.IterateActionType {
			phase, ok := pv.(pbxplist.Object)
			if !ok {
				return pbxplist.IterateActionContinue
			}
			seen := make(map[string]struct{})
			forEachListValue(phase, "files", func(value string) {
				use[value]++
				if !p.buildFileSection.Has(value) {
					*report = append(*report, Inconsistency{
						Kind:   KindDanglingBuildEntry,
						UUID:   value,
						Detail: fmt.Sprintf("phase %s lists a missing build file", phaseKey),
					})
				}
				if _, dup := seen[value]; dup {
					*report = append(*report, Inconsistency{
						Kind:   KindDuplicateBuildUse,
						UUID:   value,
						Detail: fmt.Sprintf("listed twice in phase %s", phaseKey),
					})
				}
				seen[value] = struct{}{}
			})
			return pbxplist.IterateActionContinue
		}, pbxplist.NonCommentsFilter)
		return pbxplist.IterateActionContinue
	})
	return use
}

func (p *Project) collectGroupUse(report *[]Inconsistency) map[string]int {
	use := make(map[string]int)
	for _, isa := range []string{"PBXGroup", "PBXVariantGroup"} {
		section := p.objectSection.GetObject(isa)
		section.ForeachWithFilter(func(groupKey string, v interface{}) pbxplist.IterateActionType {
			group, ok := v.(pbxplist.Object)
			if !ok {
				return pbxplist.IterateActionContinue
			}
			seen := make(map[string]struct{})
			forEachListValue(group, "children", func(value string) {
				use[value]++
				if !p.childResolves(value) {
					*report = append(*report, Inconsistency{
						Kind:   KindDanglingGroupChild,
						UUID:   value,
						Detail: fmt.Sprintf("group %s lists a missing child", groupKey),
					})
				}
				if _, dup := seen[value]; dup {
					*report = append(*report, Inconsistency{
						Kind:   KindDuplicateChild,
						UUID:   value,
						Detail: fmt.Sprintf("listed twice in group %s", groupKey),
					})
				}
				seen[value] = struct{}{}
			})
			return pbxplist.IterateActionContinue
		}, pbxplist.NonCommentsFilter)
	}
	return use
}

func (p *Project) childResolves(uuid string) bool {
	for _, isa := range []string{"PBXFileReference", "PBXGroup", "PBXVariantGroup", "XCVersionGroup"} {
		if p.objectSection.GetObject(isa).Has(uuid) {
			return true
		}
	}
	return false
}

func isBuildPhaseIsa(isa string) bool {
	switch isa {
	case "PBXSourcesBuildPhase", "PBXResourcesBuildPhase", "PBXFrameworksBuildPhase",
		"PBXCopyFilesBuildPhase", "PBXShellScriptBuildPhase", "PBXHeadersBuildPhase":
		return true
	}
	return false
}

// forEachListValue visits every identifier in a list, whether the
// element carries a comment or is a plain string written by another
// tool.
func forEachListValue(obj pbxplist.Object, key string, visit func(value string)) {
	list, ok := obj.ForceGet(key).([]interface{})
	if !ok {
		return
	}
	for _, elem := range list {
		switch child := elem.(type) {
		case pbxplist.Object:
			if value := child.GetString("value"); value != "" {
				visit(value)
			}
		case string:
			if child != "" {
				visit(child)
			}
		}
	}
}
