// Package seeders fills a fresh database with demo records.
package seeders

import "gorm.io/gorm"

type Seeder struct {
	Name string
	Run  func(db *gorm.DB) error
}

var registry []Seeder

func Register(s Seeder) {
	registry = append(registry, s)
}

// RunAll executes every registered seeder in order, returning the names
// that ran.
func RunAll(db *gorm.DB) ([]string, error) {
	var ran []string
	for _, s := range registry {
		if err := s.Run(db); err != nil {
			return ran, err
		}
		ran = append(ran, s.Name)
	}
	return ran, nil
}
