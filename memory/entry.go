package memory

import (
	"path"
	"strings"
)

// NamespaceResponses prefixes every cached reply key.
const NamespaceResponses = "responses"

// Entry is a stored key-value pair. Keys are /-separated relative paths.
type Entry struct {
	Key   string
	Value []byte
}

// validKey rejects keys that could escape the store root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return path.Clean(key) == key
}
