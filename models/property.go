package models

// PropertyID identifies one of the two managed hotel locations.
type PropertyID string

const (
	PropertySweetheart PropertyID = "sweetheart"
	PropertyRoygan     PropertyID = "roygan"
)

var propertyNames = map[PropertyID]string{
	PropertySweetheart: "Sweet Heart Inn",
	PropertyRoygan:     "Roygan Hotel",
}

// Properties lists the managed properties in display order.
func Properties() []PropertyID {
	return []PropertyID{PropertySweetheart, PropertyRoygan}
}

func (p PropertyID) Valid() bool {
	_, ok := propertyNames[p]
	return ok
}

// DisplayName returns the human readable name, or the raw id for unknown properties.
func (p PropertyID) DisplayName() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return string(p)
}
