package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedDatabase returns a fresh copy of the embedded seed fixtures.
func SeedDatabase() (Database, error) {
	var db Database
	if err := yaml.Unmarshal(seedYAML, &db); err != nil {
		return Database{}, fmt.Errorf("parse seed.yaml: %w", err)
	}
	db.normalize()
	return db, nil
}
