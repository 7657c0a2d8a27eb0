package settings

import (
	"log"
	"sort"
	"sync"

	"github.com/turbot/pg-fdw/types"
	"golang.org/x/exp/maps"
)

const (
	DefaultRowsEstimate = 1
	DefaultStartupCost  = 0
	DefaultTupleCost    = 0
)

type setterFunc func(string) error

// PlannerSettings holds the estimates used when the source provides no statistics.
type PlannerSettings struct {
	rowsEstimate float64
	startupCost  types.Cost
	tupleCost    types.Cost
	mut          sync.RWMutex

	// a map of handler function which map settings key to setter functions
	// for individual properties
	setters map[SettingKey]setterFunc
}

// Snapshot is a consistent copy of the planner settings.
type Snapshot struct {
	RowsEstimate float64
	StartupCost  types.Cost
	TupleCost    types.Cost
}

func NewPlannerSettings() *PlannerSettings {
	s := &PlannerSettings{
		rowsEstimate: DefaultRowsEstimate,
		startupCost:  DefaultStartupCost,
		tupleCost:    DefaultTupleCost,
	}
	s.setters = map[SettingKey]setterFunc{
		SettingKeyRowsEstimate: s.SetRowsEstimate,
		SettingKeyStartupCost:  s.SetStartupCost,
		SettingKeyTupleCost:    s.SetTupleCost,
	}
	return s
}

func (s *PlannerSettings) Apply(key string, jsonValue string) error {
	if applySetting, found := s.setters[SettingKey(key)]; found {
		return applySetting(jsonValue)
	}
	log.Println("[WARN] trying to apply unknown setting:", key, "=>", jsonValue)
	return nil
}

// Keys returns the names of all supported settings, sorted.
func (s *PlannerSettings) Keys() []string {
	var res []string
	for _, k := range maps.Keys(s.setters) {
		res = append(res, string(k))
	}
	sort.Strings(res)
	return res
}

func (s *PlannerSettings) Snapshot() Snapshot {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return Snapshot{
		RowsEstimate: s.rowsEstimate,
		StartupCost:  s.startupCost,
		TupleCost:    s.tupleCost,
	}
}
