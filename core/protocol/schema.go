package protocol

// Type is an OpenAPI-style schema type name.
type Type string

const (
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
	TypeArray   Type = "ARRAY"
	TypeObject  Type = "OBJECT"
)

// Schema is the subset of the response schema language used by structured
// requests.
type Schema struct {
	Type       Type               `json:"type"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// ArrayOf returns an ARRAY schema of objects whose properties are all
// strings.
func ArrayOf(fields ...string) *Schema {
	props := make(map[string]*Schema, len(fields))
	for _, f := range fields {
		props[f] = &Schema{Type: TypeString}
	}
	return &Schema{
		Type:  TypeArray,
		Items: &Schema{Type: TypeObject, Properties: props},
	}
}
