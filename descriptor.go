package contract

import "github.com/tablecraft/contract/codec"

// Frequency enumerates the time granularities a TimeDescriptor may declare.
type Frequency string

const (
	Yearly  Frequency = "yearly"
	Monthly Frequency = "monthly"
	Daily   Frequency = "daily"
	Hourly  Frequency = "hourly"
)

// LocationType enumerates the spatial granularities a LocationDescriptor may
// declare.
type LocationType string

const (
	Country LocationType = "country"
	Region  LocationType = "region"
	State   LocationType = "state"
	Point   LocationType = "point"
	City    LocationType = "city"
)

// Descriptor attaches semantic meaning to a declared field: whether it is a
// measure, a temporal dimension, or a spatial dimension. The set of
// implementations is sealed.
type Descriptor interface {
	// DescribedField names the field the descriptor annotates. The field
	// must exist in the schema.
	DescribedField() string

	validate() error
	descriptorDoc() codec.Descriptor
}

// ValueDescriptor marks a field as a measure, optionally with a unit.
type ValueDescriptor struct {
	Field string
	Unit  string // e.g. "MWh", "USD"
}

func (d ValueDescriptor) DescribedField() string { return d.Field }

func (d ValueDescriptor) validate() error {
	if d.Field == "" {
		return defErr(CodeUnknownFieldReference, "", "value descriptor needs a field name")
	}
	return nil
}

func (d ValueDescriptor) descriptorDoc() codec.Descriptor {
	return codec.Descriptor{Type: "value", Field: d.Field, Unit: d.Unit}
}

// TimeDescriptor marks a field as a temporal dimension with a fixed
// frequency.
type TimeDescriptor struct {
	Field     string
	Frequency Frequency
}

func (d TimeDescriptor) DescribedField() string { return d.Field }

func (d TimeDescriptor) validate() error {
	if d.Field == "" {
		return defErr(CodeUnknownFieldReference, "", "time descriptor needs a field name")
	}
	switch d.Frequency {
	case Yearly, Monthly, Daily, Hourly:
		return nil
	}
	return defErr(CodeInvalidConstraint, d.Field, "unknown frequency %q", d.Frequency)
}

func (d TimeDescriptor) descriptorDoc() codec.Descriptor {
	return codec.Descriptor{Type: "time", Field: d.Field, Frequency: string(d.Frequency)}
}

// LocationDescriptor marks a field as a spatial dimension.
type LocationDescriptor struct {
	Field        string
	LocationType LocationType
}

func (d LocationDescriptor) DescribedField() string { return d.Field }

func (d LocationDescriptor) validate() error {
	if d.Field == "" {
		return defErr(CodeUnknownFieldReference, "", "location descriptor needs a field name")
	}
	switch d.LocationType {
	case Country, Region, State, Point, City:
		return nil
	}
	return defErr(CodeInvalidConstraint, d.Field, "unknown location type %q", d.LocationType)
}

func (d LocationDescriptor) descriptorDoc() codec.Descriptor {
	return codec.Descriptor{Type: "location", Field: d.Field, LocationType: string(d.LocationType)}
}
