package tree

// Kind tags the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

const (
	// IDField holds the stable identifier of nested objects (widgets, areas, documents).
	IDField = "_id"
	// TypeField names the object type ("area" for areas, widget type names otherwise).
	TypeField = "type"
	// ItemsField is the ordered widget array of an area.
	ItemsField = "items"
	// AreaType marks an object as an area.
	AreaType = "area"
)
