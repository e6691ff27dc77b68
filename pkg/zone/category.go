package zone

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Category classifies a zone. The set is closed: anything that is not a
// known royal-continent, black-zone, or avalonian id maps to Unknown.
type Category uint8

const (
	// Unknown is the default for zones absent from the vocabulary.
	Unknown Category = iota
	// Royal marks zones on the royal continent.
	Royal
	// Black marks outland black zones.
	Black
	// Avalon marks avalonian road zones.
	Avalon
)

var categoryNames = map[Category]string{
	Unknown: "UNKNOWN",
	Royal:   "ROYAL",
	Black:   "BLACK",
	Avalon:  "AVALON",
}

// String returns the wire form of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseCategory maps a wire string to a Category. It is total: casing is
// ignored and unrecognized values come back as Unknown, never an error,
// so dirty persisted data degrades instead of failing a load.
func ParseCategory(s string) Category {
	switch s {
	case "ROYAL", "royal", "Royal":
		return Royal
	case "BLACK", "black", "Black":
		return Black
	case "AVALON", "avalon", "Avalon":
		return Avalon
	default:
		return Unknown
	}
}

// MarshalJSON writes the category as its wire string.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON reads any string form; unrecognized values sanitize to
// Unknown rather than erroring.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}

// UnmarshalYAML lets vocabulary files spell categories in any case.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}
