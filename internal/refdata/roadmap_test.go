package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const messyRoadmap = `{
  "Web Developer": {
    "resources": [{"title": " HTML "}, "CSS", {"title": ""}, {"url": "https://example.com"}, 42, {"title": "HTML"}],
    "tools": ["Git", "  ", null, "VS Code"],
    "projects": ["Portfolio site", "CSS"]
  },
  "Data Scientist": {
    "tools": ["Python", "Jupyter"],
    "projects": []
  },
  "Android Developer": {
    "resources": ["Kotlin"]
  }
}`

func TestParseRoadmap(t *testing.T) {
	entries, err := ParseRoadmap([]byte(messyRoadmap))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Web Developer", entries[0].PathName)
	assert.Equal(t, []string{"HTML", "CSS", "Git", "VS Code", "Portfolio site"}, entries[0].Skills)

	assert.Equal(t, "Data Scientist", entries[1].PathName)
	assert.Equal(t, []string{"Python", "Jupyter"}, entries[1].Skills)

	assert.Equal(t, "Android Developer", entries[2].PathName)
	assert.Equal(t, []string{"Kotlin"}, entries[2].Skills)
}

func TestParseRoadmapKeepsDocumentOrder(t *testing.T) {
	doc := `{"Zeta": {"tools": ["a"]}, "Alpha": {"tools": ["b"]}, "Mid": {"tools": ["c"]}}`
	entries, err := ParseRoadmap([]byte(doc))
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.PathName)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names)
}

func TestParseRoadmapInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"Web Developer": [`,
		"array root":      `[{"tools": ["Git"]}]`,
		"non-object path": `{"Web Developer": ["Git"]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoadmap([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestCleanRoadmap(t *testing.T) {
	out, err := CleanRoadmap([]byte(messyRoadmap))
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(out))

	doc := gjson.ParseBytes(out)

	var order []string
	doc.ForEach(func(key, _ gjson.Result) bool {
		order = append(order, key.String())
		return true
	})
	assert.Equal(t, []string{"Web Developer", "Data Scientist", "Android Developer"}, order)

	web := doc.Get(`Web Developer`)
	resources := web.Get("resources").Array()
	require.Len(t, resources, 3)
	assert.Equal(t, "HTML", resources[0].Get("title").String())
	assert.Equal(t, "CSS", resources[1].String())
	assert.Equal(t, "HTML", resources[2].Get("title").String())

	assert.Equal(t, `["Git","VS Code"]`, compact(web.Get("tools").Raw))
	assert.Equal(t, `["Portfolio site","CSS"]`, compact(web.Get("projects").Raw))

	ds := doc.Get(`Data Scientist`)
	assert.True(t, ds.Get("resources").IsArray())
	assert.Empty(t, ds.Get("resources").Array())
	assert.Equal(t, "[]", compact(ds.Get("projects").Raw))

	// four-space indentation
	assert.Contains(t, string(out), "\n    \"Web Developer\": {")
}

func TestCleanRoadmapThenParseMatchesParse(t *testing.T) {
	cleaned, err := CleanRoadmap([]byte(messyRoadmap))
	require.NoError(t, err)

	fromClean, err := ParseRoadmap(cleaned)
	require.NoError(t, err)
	fromRaw, err := ParseRoadmap([]byte(messyRoadmap))
	require.NoError(t, err)

	assert.Equal(t, fromRaw, fromClean)
}

func compact(raw string) string {
	var b []byte
	inString := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '"' && (i == 0 || raw[i-1] != '\\') {
			inString = !inString
		}
		if !inString && (c == ' ' || c == '\n' || c == '\t') {
			continue
		}
		b = append(b, c)
	}
	return string(b)
}
