package storage

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// truncatedSuffix marks a stored string that was cut at the cap.
const truncatedSuffix = "... [TRUNCATED]"

// CapStrings truncates every string value in the result JSON longer than
// maxLen. Model responses can carry very large code examples; the database
// keeps the finding, not the payload. maxLen <= 0 disables the cap.
func CapStrings(data []byte, maxLen int) []byte {
	if maxLen <= 0 {
		return data
	}

	type edit struct {
		path  string
		value string
	}
	var edits []edit

	var walk func(prefix string, value gjson.Result)
	walk = func(prefix string, value gjson.Result) {
		value.ForEach(func(key, v gjson.Result) bool {
			path := key.String()
			if prefix != "" {
				path = prefix + "." + path
			}
			switch {
			case v.IsObject() || v.IsArray():
				walk(path, v)
			case v.Type == gjson.String && len(v.String()) > maxLen:
				edits = append(edits, edit{path: path, value: v.String()[:maxLen] + truncatedSuffix})
			}
			return true
		})
	}
	walk("", gjson.ParseBytes(data))

	for _, e := range edits {
		if out, err := sjson.SetBytes(data, e.path, e.value); err == nil {
			data = out
		}
	}
	return data
}
