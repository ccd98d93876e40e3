package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
)

type (
	// DB keeps every record in memory. It backs the tests and the `memory` engine.
	DB struct {
		school *schoolTable
		page   *pageTable
	}

	schoolTable struct {
		mutex sync.RWMutex
		table map[string]*school.School
	}

	pageTable struct {
		mutex sync.RWMutex
		table map[string]*page.Page
	}
)

func Open() *DB {
	return &DB{
		school: &schoolTable{table: make(map[string]*school.School)},
		page:   &pageTable{table: make(map[string]*page.Page)},
	}
}

func isExcluded(id string, excludedIDs []string) bool {
	for _, excl := range excludedIDs {
		if id == excl {
			return true
		}
	}
	return false
}
