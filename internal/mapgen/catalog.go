package mapgen

const (
	DefaultStarResource   = "main_sequence_yellow_01"
	DefaultPlanetResource = "gas_giant_01"
)

// Catalog resolves texture resource ids for stars and planets.
type Catalog interface {
	Has(kind BodyKind, id string) bool
}

type StaticCatalog map[BodyKind]map[string]struct{}

func NewStaticCatalog(stars, planets []string) StaticCatalog {
	c := StaticCatalog{
		BodyKindStar:   make(map[string]struct{}, len(stars)),
		BodyKindPlanet: make(map[string]struct{}, len(planets)),
	}
	for _, id := range stars {
		c[BodyKindStar][id] = struct{}{}
	}
	for _, id := range planets {
		c[BodyKindPlanet][id] = struct{}{}
	}
	return c
}

// DefaultCatalog knows the stock star and planet resources.
func DefaultCatalog() StaticCatalog {
	return NewStaticCatalog([]string{DefaultStarResource}, []string{DefaultPlanetResource})
}

func (c StaticCatalog) Has(kind BodyKind, id string) bool {
	_, ok := c[kind][id]
	return ok
}
