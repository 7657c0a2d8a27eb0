package settings

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/turbot/pg-fdw/types"
)

func (s *PlannerSettings) SetRowsEstimate(jsonValue string) error {
	log.Printf("[TRACE] SetRowsEstimate %s", jsonValue)
	rows, err := parseNonNegative(SettingKeyRowsEstimate, jsonValue)
	if err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()
	s.rowsEstimate = rows
	return nil
}

func (s *PlannerSettings) SetStartupCost(jsonValue string) error {
	log.Printf("[TRACE] SetStartupCost %s", jsonValue)
	cost, err := parseNonNegative(SettingKeyStartupCost, jsonValue)
	if err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()
	s.startupCost = types.Cost(cost)
	return nil
}

func (s *PlannerSettings) SetTupleCost(jsonValue string) error {
	log.Printf("[TRACE] SetTupleCost %s", jsonValue)
	cost, err := parseNonNegative(SettingKeyTupleCost, jsonValue)
	if err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()
	s.tupleCost = types.Cost(cost)
	return nil
}

func parseNonNegative(key SettingKey, jsonValue string) (float64, error) {
	var value float64
	if err := json.Unmarshal([]byte(jsonValue), &value); err != nil {
		return 0, fmt.Errorf("invalid value for setting '%s': %s", key, err.Error())
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid value for setting '%s': %v must not be negative", key, value)
	}
	return value, nil
}
