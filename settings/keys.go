package settings

type SettingKey string

const (
	SettingKeyRowsEstimate SettingKey = "rows_estimate"
	SettingKeyStartupCost  SettingKey = "startup_cost"
	SettingKeyTupleCost    SettingKey = "tuple_cost"
)
