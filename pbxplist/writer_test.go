package pbxplist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRoundTripIsStable(t *testing.T) {
	doc, err := Parse([]byte(miniManifest))
	require.NoError(t, err)

	first := NewWriter(doc).Bytes()

	reparsed, err := Parse(first)
	require.NoError(t, err)
	second := NewWriter(reparsed).Bytes()

	assert.Equal(t, string(first), string(second))
}

func TestWriterReproducesInput(t *testing.T) {
	doc, err := Parse([]byte(miniManifest))
	require.NoError(t, err)

	out := string(NewWriter(doc).Bytes())
	assert.Equal(t, miniManifest, out)
}

func TestWriterPreservesPaddedNumerals(t *testing.T) {
	doc, err := Parse([]byte(paddedNumerals))
	require.NoError(t, err)

	// values the run never touched must come back byte for byte,
	// leading zeros included
	out := string(NewWriter(doc).Bytes())
	assert.Equal(t, paddedNumerals, out)
	assert.Contains(t, out, "buildVersion = 007;")
}

func TestWriterOutputIsBalanced(t *testing.T) {
	doc, err := Parse([]byte(miniManifest))
	require.NoError(t, err)

	out := string(NewWriter(doc).Bytes())
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
	assert.Equal(t, strings.Count(out, "("), strings.Count(out, ")"))
	assert.Equal(t, strings.Count(out, "/*"), strings.Count(out, "*/"))
}

func TestWriterInlinesFileReferences(t *testing.T) {
	doc, err := Parse([]byte(miniManifest))
	require.NoError(t, err)

	out := string(NewWriter(doc).Bytes())
	assert.Contains(t, out,
		"\t\tAAAA000000000000000000F1 /* Foo.swift */ = {isa = PBXFileReference; fileEncoding = 4; lastKnownFileType = sourcecode.swift; name = \"Foo Copy.swift\"; path = Foo.swift; sourceTree = \"<group>\"; };\n")
}

func TestWriterSectionMarkers(t *testing.T) {
	doc, err := Parse([]byte(miniManifest))
	require.NoError(t, err)

	out := string(NewWriter(doc).Bytes())
	assert.Contains(t, out, "\n/* Begin PBXFileReference section */\n")
	assert.Contains(t, out, "/* End PBXFileReference section */\n")
	assert.Contains(t, out, "\n/* Begin PBXGroup section */\n")
	assert.Contains(t, out, "/* End PBXGroup section */\n")
}

func TestWriterOmitEmptyOption(t *testing.T) {
	doc := NewObject()
	proj := NewObject()
	proj.Set("keep", "value")
	proj.Set("drop", "")
	objects := NewObject()
	proj.Set("objects", objects)
	doc.Set("project", proj)

	out := string(NewWriter(doc, WithOmitEmpty()).Bytes())
	assert.Contains(t, out, "keep = value;")
	assert.NotContains(t, out, "drop")
}
