package osm

type RoadType uint8

const (
	RoadInvalid RoadType = iota
	RoadMotorway
	RoadTrunk
	RoadPrimary
	RoadSecondary
	RoadTertiary
	RoadResidential
	RoadService
	RoadUnclassified
	RoadFootway
)

var roadTypeNames = map[RoadType]string{
	RoadInvalid:      "invalid",
	RoadMotorway:     "motorway",
	RoadTrunk:        "trunk",
	RoadPrimary:      "primary",
	RoadSecondary:    "secondary",
	RoadTertiary:     "tertiary",
	RoadResidential:  "residential",
	RoadService:      "service",
	RoadUnclassified: "unclassified",
	RoadFootway:      "footway",
}

func (t RoadType) String() string {
	if s, ok := roadTypeNames[t]; ok {
		return s
	}
	return "invalid"
}

var highwayTypes = map[string]RoadType{
	"motorway":       RoadMotorway,
	"motorway_link":  RoadMotorway,
	"trunk":          RoadTrunk,
	"trunk_link":     RoadTrunk,
	"primary":        RoadPrimary,
	"primary_link":   RoadPrimary,
	"secondary":      RoadSecondary,
	"secondary_link": RoadSecondary,
	"tertiary":       RoadTertiary,
	"tertiary_link":  RoadTertiary,
	"residential":    RoadResidential,
	"living_street":  RoadResidential,
	"service":        RoadService,
	"unclassified":   RoadUnclassified,
	"footway":        RoadFootway,
	"bridleway":      RoadFootway,
	"steps":          RoadFootway,
	"path":           RoadFootway,
	"pedestrian":     RoadFootway,
}

// ClassifyHighway maps an OSM highway tag value to a RoadType.
func ClassifyHighway(highway string) RoadType {
	if t, ok := highwayTypes[highway]; ok {
		return t
	}
	return RoadInvalid
}
