package pbxproj

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapywu/pbxsync/pbxplist"
)

func TestAddSourceFileTouchesAllFourSections(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddSourceFile("Bar.swift", FileOptions{Group: "Components"})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.NotEqual(t, f.FileRef, f.UUID)
	assert.True(t, isManifestUUID(f.FileRef))
	assert.True(t, isManifestUUID(f.UUID))

	text := string(p.Bytes())
	// one line each: file reference, build file, group child, phase entry
	assert.Equal(t, 4, countLines(text, "Bar.swift"))
	assert.Contains(t, text, f.UUID+" /* Bar.swift in Sources */ = {isa = PBXBuildFile; fileRef = "+f.FileRef+" /* Bar.swift */; };")
	assert.Contains(t, text, "lastKnownFileType = sourcecode.swift; path = Bar.swift; sourceTree = \"<group>\";")

	// the new entries resolve; the manifest stays consistent
	assert.Empty(t, p.Verify())
}

func TestAddSourceFileIsIdempotent(t *testing.T) {
	p := loadFixture(t)

	_, err := p.AddSourceFile("Bar.swift", FileOptions{Group: "Components"})
	require.NoError(t, err)
	first := p.Bytes()

	_, err = p.AddSourceFile("Bar.swift", FileOptions{Group: "Components"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileExists))

	assert.Equal(t, string(first), string(p.Bytes()))
	assert.Equal(t, 4, countLines(string(first), "Bar.swift"))
}

func TestAddThenRemoveRestoresManifest(t *testing.T) {
	p := loadFixture(t)
	before := p.Bytes()

	_, err := p.AddSourceFile("Bar.swift", FileOptions{Group: "Components"})
	require.NoError(t, err)
	_, err = p.RemoveSourceFile("Bar.swift", FileOptions{})
	require.NoError(t, err)

	assert.Equal(t, string(before), string(p.Bytes()))
}

func TestRemoveSourceFileIsScopedToTheFile(t *testing.T) {
	p := loadFixture(t)

	removed, err := p.RemoveSourceFile("Foo.swift", FileOptions{})
	require.NoError(t, err)
	assert.Equal(t, fixtureFooRef, removed.FileRef)
	assert.Equal(t, "Foo.swift", removed.Basename)

	text := string(p.Bytes())
	assert.NotContains(t, text, "Foo.swift")
	assert.NotContains(t, text, fixtureFooRef)
	assert.NotContains(t, text, fixtureFooBuildFile)

	// everything else survives untouched
	assert.Equal(t, 4, countLines(text, "Assets.xcassets"))
	assert.Empty(t, p.Verify())
}

func TestRemoveMissingFile(t *testing.T) {
	p := loadFixture(t)
	before := p.Bytes()

	_, err := p.RemoveSourceFile("Missing.swift", FileOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, string(before), string(p.Bytes()))
}

func TestAddAbortsWhenGroupMissing(t *testing.T) {
	p := loadFixture(t)
	before := p.Bytes()

	_, err := p.AddSourceFile("Bar.swift", FileOptions{Group: "Nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGroupNotFound))

	// the anchor check failed before the first write
	assert.Equal(t, string(before), string(p.Bytes()))
}

func TestAddAbortsWhenPhaseMissing(t *testing.T) {
	p := loadFixture(t)
	before := p.Bytes()

	_, err := p.AddSourceFile("Bar.swift", FileOptions{Group: "Components", Target: "Nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPhaseNotFound))
	assert.Equal(t, string(before), string(p.Bytes()))
}

func TestAddCreatesGroupOnRequest(t *testing.T) {
	p := loadFixture(t)

	_, err := p.AddSourceFile("Gen.swift", FileOptions{Group: "Generated", CreateGroup: true})
	require.NoError(t, err)

	key := p.groupKeyByName("Generated")
	require.NotEmpty(t, key)
	text := string(p.Bytes())
	assert.Equal(t, 4, countLines(text, "Gen.swift"))
}

func TestAddResourceFile(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddResourceFile("Splash.png", FileOptions{Group: "Billix"})
	require.NoError(t, err)
	assert.Equal(t, "Resources", f.Group)

	text := string(p.Bytes())
	assert.Equal(t, 4, countLines(text, "Splash.png"))
	assert.Contains(t, text, "/* Splash.png in Resources */")
	assert.Contains(t, text, "lastKnownFileType = image.png;")
	assert.Empty(t, p.Verify())
}

func TestAddWeakFrameworkSettings(t *testing.T) {
	p := loadFixture(t)

	_, err := p.AddSourceFile("Legacy.m", FileOptions{Group: "Components", Weak: true, CompilerFlags: "-fno-objc-arc"})
	require.NoError(t, err)

	text := string(p.Bytes())
	assert.Contains(t, text, "settings = {ATTRIBUTES = (Weak, ); COMPILER_FLAGS = \"-fno-objc-arc\"; };")
}

func TestAddFileInSubdirectoryKeepsName(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddSourceFile("Features/Login/Login.swift", FileOptions{Group: "Components"})
	require.NoError(t, err)
	assert.Equal(t, "Login.swift", f.Basename)

	text := string(p.Bytes())
	assert.Contains(t, text, "name = Login.swift; path = Features/Login/Login.swift;")

	// removal resolves by the registered path
	_, err = p.RemoveSourceFile("Features/Login/Login.swift", FileOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(p.Bytes()), "Login.swift")
}

func TestAddGroupAndRemoveGroup(t *testing.T) {
	p := loadFixture(t)

	uuid := p.AddGroup("Helpers", "Helpers", "Billix")
	require.True(t, isManifestUUID(uuid))

	text := string(p.Bytes())
	assert.Contains(t, text, uuid+" /* Helpers */")
	// linked into the parent's children
	billix := p.groupByName("Billix")
	children, ok := billix.ForceGet("children").([]interface{})
	require.True(t, ok)
	last, ok := children[len(children)-1].(pbxplist.Object)
	require.True(t, ok)
	assert.Equal(t, uuid, last.GetString("value"))
	assert.Equal(t, "Helpers", last.GetString("comment"))

	require.True(t, p.RemoveGroup("Helpers"))
	text = string(p.Bytes())
	assert.NotContains(t, text, uuid)
	assert.NotContains(t, text, "Helpers")

	assert.False(t, p.RemoveGroup("Nope"))
}

func TestRemoveResourceFile(t *testing.T) {
	p := loadFixture(t)

	_, err := p.RemoveResourceFile("Assets.xcassets", FileOptions{})
	require.NoError(t, err)

	text := string(p.Bytes())
	assert.NotContains(t, text, "Assets.xcassets")
	// the Sources side of the manifest is untouched
	assert.Equal(t, 4, countLines(text, "Foo.swift"))
	assert.Empty(t, p.Verify())
}

func TestUnquotedAndQuotedIfNeeded(t *testing.T) {
	assert.Equal(t, "Foo.swift", unquoted(`"Foo.swift"`))
	assert.Equal(t, "Foo.swift", unquoted("Foo.swift"))
	assert.Equal(t, "", unquoted(""))

	assert.Equal(t, "Foo.swift", quotedIfNeeded("Foo.swift"))
	assert.Equal(t, "a/b/c.m", quotedIfNeeded("a/b/c.m"))
	assert.Equal(t, `"Foo Copy.swift"`, quotedIfNeeded("Foo Copy.swift"))
	assert.Equal(t, `""`, quotedIfNeeded(""))
	assert.Equal(t, `"already"`, quotedIfNeeded(`"already"`))
}

func TestDetectTypeGroupEncoding(t *testing.T) {
	assert.Equal(t, "sourcecode.swift", detectType("A.swift"))
	assert.Equal(t, "image.png", detectType("logo.PNG"))
	assert.Equal(t, DEFAULT_FILETYPE, detectType("README"))

	assert.Equal(t, "Sources", detectGroup("sourcecode.swift"))
	assert.Equal(t, "Frameworks", detectGroup("wrapper.framework"))
	assert.Equal(t, DEFAULT_GROUP, detectGroup("image.png"))

	assert.Equal(t, DEFAULT_ENCODING_VALUE, detectEncoding("sourcecode.swift"))
	assert.Equal(t, 0, detectEncoding("image.png"))
}

func TestLongCommentUsesPhaseGroup(t *testing.T) {
	f := newFileRecord("Bar.swift", FileOptions{})
	assert.Equal(t, "Bar.swift in Sources", longComment(f))
	assert.False(t, strings.Contains(longComment(f), "/"))
}
