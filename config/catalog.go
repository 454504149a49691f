package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"occupancy/constants"
	"occupancy/models"
)

// RoomGroup is one room type of the nightly property and its room numbers.
type RoomGroup struct {
	Type  string   `yaml:"type"`
	Rooms []string `yaml:"rooms"`
}

// HourlyCatalog describes the hourly property: rooms "1".."Count".
type HourlyCatalog struct {
	Count    int    `yaml:"count"`
	RoomType string `yaml:"roomType"`
}

// Catalog is the fixed room inventory seeded on first run.
type Catalog struct {
	Sweetheart HourlyCatalog `yaml:"sweetheart"`
	Roygan     []RoomGroup   `yaml:"roygan"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Sweetheart: HourlyCatalog{Count: 16, RoomType: constants.HourlyUnitType},
		Roygan: []RoomGroup{
			{Type: "Single Standard", Rooms: []string{"206", "302", "209"}},
			{Type: "Single Premier", Rooms: []string{"300", "304", "308", "309"}},
			{Type: "Double Standard", Rooms: []string{"204", "205", "305", "306", "307"}},
			{Type: "Deluxe Room", Rooms: []string{"105", "208", "303"}},
			{Type: "Super Deluxe", Rooms: []string{"216", "220"}},
			{Type: "Suite Room", Rooms: []string{"214", "215", "217", "218"}},
			{Type: "Executive Suite", Rooms: []string{"210", "211"}},
		},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path yields DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c.Sweetheart.RoomType == "" {
		c.Sweetheart.RoomType = constants.HourlyUnitType
	}
	if err := c.validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func (c Catalog) validate() error {
	if c.Sweetheart.Count < 0 || c.Sweetheart.Count > 99 {
		return fmt.Errorf("sweetheart count %d out of range", c.Sweetheart.Count)
	}
	seen := map[string]bool{}
	for _, g := range c.Roygan {
		if g.Type == "" {
			return fmt.Errorf("roygan group without type")
		}
		if len(g.Rooms) > 99 {
			return fmt.Errorf("roygan group %q has too many rooms", g.Type)
		}
		for _, n := range g.Rooms {
			if seen[n] {
				return fmt.Errorf("roygan room %s listed twice", n)
			}
			seen[n] = true
		}
	}
	return nil
}

// Rooms builds the initial FREE room list. Ids are 1..N for the hourly
// property and 100+group*100+index for the nightly one.
func (c Catalog) Rooms() []models.Room {
	rooms := make([]models.Room, 0, c.Sweetheart.Count+23)
	for i := 1; i <= c.Sweetheart.Count; i++ {
		rooms = append(rooms, models.Room{
			ID:         i,
			PropertyID: models.PropertySweetheart,
			RoomNumber: strconv.Itoa(i),
			Status:     models.RoomStatusFree,
			RoomType:   c.Sweetheart.RoomType,
		})
	}
	for g, group := range c.Roygan {
		for i, num := range group.Rooms {
			rooms = append(rooms, models.Room{
				ID:         100 + g*100 + i,
				PropertyID: models.PropertyRoygan,
				RoomNumber: num,
				Status:     models.RoomStatusFree,
				RoomType:   group.Type,
			})
		}
	}
	return rooms
}

// TypeOrder lists the nightly room types in catalog order.
func (c Catalog) TypeOrder() []string {
	out := make([]string, len(c.Roygan))
	for i, g := range c.Roygan {
		out[i] = g.Type
	}
	return out
}
