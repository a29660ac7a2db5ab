package region

import (
	"fmt"
	"sort"
)

// Region set names accepted by Set.
const (
	SetCities    = "cities"
	SetRegions   = "regions"
	SetCountries = "countries"
	SetBlocks    = "blocks"
	SetGlobal    = "global"
)

// BlockSize is the edge length in degrees of the world grid blocks.
const BlockSize = 10

var cities = map[string]Region{
	"sf":     New("San Francisco", 37.4, -122.8, 38.2, -121.8),
	"nyc":    New("New York City", 40.5, -74.3, 40.9, -73.7),
	"london": New("London", 51.3, -0.6, 51.7, 0.2),
	"berlin": New("Berlin", 52.3, 13.0, 52.7, 13.8),
	"tokyo":  New("Tokyo", 35.5, 139.4, 35.8, 139.9),
	"sydney": New("Sydney", -33.9, 151.1, -33.7, 151.4),
	"paris":  New("Paris", 48.8, 2.2, 48.9, 2.5),
}

var cityOrder = []string{"sf", "nyc", "london", "berlin", "tokyo", "sydney", "paris"}

// SetNames returns the known set names, global last.
func SetNames() []string {
	return []string{SetCities, SetRegions, SetCountries, SetBlocks, SetGlobal}
}

// Set returns the regions of the named set.
func Set(name string) ([]Region, error) {
	switch name {
	case SetCities:
		out := make([]Region, 0, len(cityOrder))
		for _, key := range cityOrder {
			out = append(out, cities[key])
		}
		return out, nil
	case SetRegions:
		return continents(), nil
	case SetCountries:
		return countries(), nil
	case SetBlocks:
		return Blocks(BlockSize), nil
	case SetGlobal:
		return []Region{Global()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
}

// City returns the preset box for a city key such as "sf" or "london".
func City(key string) (Region, error) {
	r, ok := cities[key]
	if !ok {
		return Region{}, fmt.Errorf("%w: city %q", ErrUnknownSet, key)
	}
	return r, nil
}

// CityKeys returns the known city keys sorted alphabetically.
func CityKeys() []string {
	keys := make([]string, 0, len(cities))
	for k := range cities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Global returns the region covering the whole planet.
func Global() Region {
	return Region{Name: "Global"}
}

// Blocks tiles the planet into size x size degree blocks, south to north and
// west to east.
func Blocks(size int) []Region {
	if size <= 0 {
		return nil
	}
	var out []Region
	for lat := -90; lat < 90; lat += size {
		for lon := -180; lon < 180; lon += size {
			name := fmt.Sprintf("Block %d°N %d°E", lat, lon)
			out = append(out, New(name, float64(lat), float64(lon), float64(lat+size), float64(lon+size)))
		}
	}
	return out
}

func continents() []Region {
	return []Region{
		New("North America", 15, -180, 85, -50),
		New("Europe", 35, -25, 75, 45),
		New("Asia", 5, 60, 55, 180),
		New("Australia/Oceania", -50, 110, -10, 180),
		New("South America", -60, -85, 15, -30),
		New("Africa", -40, -20, 40, 60),
	}
}

func countries() []Region {
	return []Region{
		New("United States", 25, -125, 50, -66),
		New("United Kingdom", 50, -8, 61, 2),
		New("Germany", 47, 5, 55, 15),
		New("France", 42, -5, 51, 9),
		New("Spain", 36, -9, 44, 4),
		New("Italy", 36, 6, 47, 19),
		New("Japan", 31, 129, 46, 146),
		New("Australia", -44, 113, -10, 154),
		New("Canada", 42, -141, 84, -52),
		New("Brazil", -34, -74, 6, -34),
		New("India", 6, 68, 37, 97),
		New("China", 18, 73, 54, 135),
	}
}
