package achievement

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

type tablesFile struct {
	Belts  []Tier `yaml:"belts"`
	Levels []Tier `yaml:"levels"`
}

// ParseTables decodes belt and level tables from YAML. A missing section falls back to its default table.
//
//	belts:
//	  - name: White
//	    threshold: 1
//	    message: Your first story!
//	levels:
//	  - name: Beginner
//	    threshold: 0
func ParseTables(data []byte) (belts, levels Table, err error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Table{}, Table{}, core.NewConfigError("achievement.ParseTables", "%v", err)
	}

	belts, levels = DefaultBeltTable, DefaultLevelTable
	if len(f.Belts) > 0 {
		if belts, err = NewTable(f.Belts...); err != nil {
			return Table{}, Table{}, errors.Wrap(err, "belts")
		}
	}
	if len(f.Levels) > 0 {
		if levels, err = NewTable(f.Levels...); err != nil {
			return Table{}, Table{}, errors.Wrap(err, "levels")
		}
	}
	return belts, levels, nil
}

// LoadTables returns the tables of path, or the default tables when path is empty.
func LoadTables(path string) (belts, levels Table, err error) {
	if path == "" {
		return DefaultBeltTable, DefaultLevelTable, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, Table{}, core.NewConfigError("achievement.LoadTables", "%v", err)
	}
	return ParseTables(data)
}

// DefaultTracks returns the belt and level tracks built from conf.
func DefaultTracks(conf *core.Config) ([]Track, error) {
	belts, levels, err := LoadTables(conf.Achievement.TiersFile)
	if err != nil {
		return nil, err
	}
	return []Track{BeltTrack(belts), LevelTrack(levels)}, nil
}
