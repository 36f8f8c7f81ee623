package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"resumetwin/internal/analysis"
	"resumetwin/internal/types"
)

// ParseRoadmap turns a roadmap document into entries in document order.
//
// The document is an object keyed by path name. Each path may carry
// "resources" (objects with a "title" or plain strings), "tools" and
// "projects" (strings). Skills are collected in that order, trimmed,
// with empty and non-string values dropped and duplicates removed.
func ParseRoadmap(data []byte) ([]types.RoadmapEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("roadmap is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("roadmap must be a JSON object keyed by path name")
	}

	var (
		entries []types.RoadmapEntry
		bad     error
	)
	root.ForEach(func(key, details gjson.Result) bool {
		if !details.IsObject() {
			bad = fmt.Errorf("roadmap path %q is not an object", key.String())
			return false
		}

		skills := resourceTitles(details.Get("resources"))
		skills = append(skills, stringItems(details.Get("tools"))...)
		skills = append(skills, stringItems(details.Get("projects"))...)

		entries = append(entries, types.RoadmapEntry{
			PathName: key.String(),
			Skills:   analysis.NormalizeSkills(skills),
		})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return entries, nil
}

func resourceTitles(resources gjson.Result) []string {
	var out []string
	resources.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.IsObject():
			if title := item.Get("title"); title.Type == gjson.String {
				out = append(out, title.String())
			}
		case item.Type == gjson.String:
			out = append(out, item.String())
		}
		return true
	})
	return out
}

func stringItems(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
		return true
	})
	return out
}

type cleanedPath struct {
	name    string
	details cleanedDetails
}

type cleanedDetails struct {
	Resources []any    `json:"resources"`
	Projects  []string `json:"projects"`
	Tools     []string `json:"tools"`
}

type cleanedRoadmap []cleanedPath

// MarshalJSON writes the paths as one object in their original order.
func (r cleanedRoadmap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(p.details)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CleanRoadmap rewrites a roadmap document into its canonical form, keeping
// path order. Resources become {"title": ...} objects or plain strings,
// projects and tools keep only strings, and every value is trimmed with
// empty ones dropped. Unlike ParseRoadmap, duplicates are kept.
func CleanRoadmap(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("roadmap is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("roadmap must be a JSON object keyed by path name")
	}

	var cleaned cleanedRoadmap
	root.ForEach(func(key, details gjson.Result) bool {
		d := cleanedDetails{
			Resources: []any{},
			Projects:  trimmedStrings(details.Get("projects")),
			Tools:     trimmedStrings(details.Get("tools")),
		}
		details.Get("resources").ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.IsObject():
				if title := item.Get("title"); title.Type == gjson.String {
					if t := strings.TrimSpace(title.String()); t != "" {
						d.Resources = append(d.Resources, map[string]string{"title": t})
					}
				}
			case item.Type == gjson.String:
				if t := strings.TrimSpace(item.String()); t != "" {
					d.Resources = append(d.Resources, t)
				}
			}
			return true
		})
		cleaned = append(cleaned, cleanedPath{name: key.String(), details: d})
		return true
	})

	return json.MarshalIndent(cleaned, "", "    ")
}

func trimmedStrings(list gjson.Result) []string {
	out := []string{}
	for _, s := range stringItems(list) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
