package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLeagues maps football-data league codes to display names
var DefaultLeagues = map[string]string{
	"E0":  "Premier League",
	"E1":  "Championship",
	"SP1": "La Liga",
	"SP2": "Segunda División",
	"I1":  "Serie A",
	"I2":  "Serie B",
	"F1":  "Ligue 1",
	"F2":  "Ligue 2",
	"D1":  "Bundesliga",
	"D2":  "Bundesliga 2",
}

// leaguesFile is the YAML layout of a league map:
//
//	leagues:
//	  E0: Premier League
type leaguesFile struct {
	Leagues map[string]string `yaml:"leagues"`
}

// LoadLeagues reads a league map from YAML layered over DefaultLeagues. An
// empty path returns a copy of DefaultLeagues.
func LoadLeagues(path string) (map[string]string, error) {
	out := make(map[string]string, len(DefaultLeagues))
	for k, v := range DefaultLeagues {
		out[k] = v
	}
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read league map: %w", err)
	}

	var file leaguesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse league map %s: %w", path, err)
	}
	if len(file.Leagues) == 0 {
		return nil, fmt.Errorf("league map %s has no leagues", path)
	}

	for k, v := range file.Leagues {
		out[k] = v
	}
	return out, nil
}

// LeagueName maps a league code through the table, falling back to the code
func LeagueName(leagues map[string]string, code string) string {
	if name, ok := leagues[code]; ok {
		return name
	}
	return code
}
