// README: Immutable driver catalog, built in or loaded from YAML at startup.
package matching

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is a validated, read-only list of drivers. Order is significant: it breaks
// fare ties in estimates.
type Catalog struct {
	drivers []DriverProfile
	byID    map[int64]int
}

func NewCatalog(drivers []DriverProfile) (*Catalog, error) {
	if len(drivers) == 0 {
		return nil, fmt.Errorf("%w: no drivers", ErrInvalidCatalog)
	}
	c := &Catalog{
		drivers: make([]DriverProfile, len(drivers)),
		byID:    make(map[int64]int, len(drivers)),
	}
	for i, d := range drivers {
		switch {
		case d.ID <= 0:
			return nil, fmt.Errorf("%w: driver at index %d has non-positive id %d", ErrInvalidCatalog, i, d.ID)
		case strings.TrimSpace(d.Name) == "":
			return nil, fmt.Errorf("%w: driver %d has empty name", ErrInvalidCatalog, d.ID)
		case d.FarePerKm <= 0:
			return nil, fmt.Errorf("%w: driver %d fare_per_km must be > 0", ErrInvalidCatalog, d.ID)
		case d.MinDistanceKm <= 0:
			return nil, fmt.Errorf("%w: driver %d min_distance_km must be > 0", ErrInvalidCatalog, d.ID)
		case d.Review.Rating < 0 || d.Review.Rating > 5:
			return nil, fmt.Errorf("%w: driver %d rating must be within 0-5", ErrInvalidCatalog, d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate driver id %d", ErrInvalidCatalog, d.ID)
		}
		c.byID[d.ID] = i
		c.drivers[i] = d
	}
	return c, nil
}

// LoadCatalog reads a YAML list of drivers:
//
//	drivers:
//	  - id: 1
//	    name: Homer Simpson
//	    fare_per_km: 2.5
//	    min_distance_km: 1
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read driver catalog: %w", err)
	}
	var doc struct {
		Drivers []DriverProfile `yaml:"drivers"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse driver catalog: %w", err)
	}
	return NewCatalog(doc.Drivers)
}

// DefaultCatalog returns the built-in roster.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]DriverProfile{
		{
			ID:          1,
			Name:        "Homer Simpson",
			Description: "Olá! Sou o Homer, seu motorista camarada! Relaxe e aproveite o passeio, com direito a rosquinhas e boas risadas (e talvez alguns desvios).",
			Vehicle:     "Plymouth Valiant 1973 rosa e enferrujado",
			Review: Review{
				Rating:  2,
				Comment: "Motorista simpático, mas errou o caminho 3 vezes. O carro cheira a donuts.",
			},
			FarePerKm:     2.5,
			MinDistanceKm: 1,
		},
		{
			ID:          2,
			Name:        "Dominic Toretto",
			Description: "Ei, aqui é o Dom. Pode entrar, vou te levar com segurança e rapidez ao seu destino. Só não mexa no rádio, a playlist é sagrada.",
			Vehicle:     "Dodge Charger R/T 1970 modificado",
			Review: Review{
				Rating:  4,
				Comment: "Que viagem incrível! O carro é um show à parte e o motorista, apesar de ter uma cara de poucos amigos, foi super gente boa. Recomendo!",
			},
			FarePerKm:     5,
			MinDistanceKm: 5,
		},
		{
			ID:          3,
			Name:        "James Bond",
			Description: "Boa noite, sou James Bond. A seu dispor para um passeio suave e discreto. Aperte o cinto e aproveite a viagem.",
			Vehicle:     "Aston Martin DB5 clássico",
			Review: Review{
				Rating:  5,
				Comment: "Serviço impecável! O motorista é a própria definição de classe e o carro é simplesmente magnífico. Uma experiência digna de um agente secreto.",
			},
			FarePerKm:     10,
			MinDistanceKm: 10,
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Profiles returns a copy of the drivers in catalog order.
func (c *Catalog) Profiles() []DriverProfile {
	out := make([]DriverProfile, len(c.drivers))
	copy(out, c.drivers)
	return out
}

func (c *Catalog) ByID(id int64) (DriverProfile, bool) {
	i, ok := c.byID[id]
	if !ok {
		return DriverProfile{}, false
	}
	return c.drivers[i], true
}

func (c *Catalog) Len() int {
	return len(c.drivers)
}
