package types

import "strings"

// UnknownType classifies resources whose ARN cannot be parsed.
const UnknownType = "unknown"

// Tag is a single key/value label attached to a cloud resource.
// Keys are not guaranteed unique within one resource.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Resource is one tagged cloud resource as reported by the tagging API.
// Tag order is the arrival order from the API and is preserved everywhere.
type Resource struct {
	ARN  string `json:"arn"`
	Type string `json:"type"`
	Tags []Tag  `json:"tags"`
}

// NewResource builds a Resource, deriving its type from the ARN.
func NewResource(arn string, tags []Tag) Resource {
	return Resource{
		ARN:  arn,
		Type: TypeFromARN(arn),
		Tags: tags,
	}
}

// TypeFromARN derives the resource type from the third colon-delimited
// segment of an ARN (arn:partition:service:region:account:resource).
// Malformed ARNs classify as UnknownType rather than failing the scan.
func TypeFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 4)
	if len(parts) < 3 || parts[2] == "" {
		return UnknownType
	}
	return parts[2]
}

// TagValue returns the value of the first tag with the given key.
// First match wins when a key appears more than once.
func (r Resource) TagValue(key string) (string, bool) {
	for _, tag := range r.Tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// HasTagKey reports whether any tag on the resource carries the given key.
func (r Resource) HasTagKey(key string) bool {
	_, ok := r.TagValue(key)
	return ok
}
