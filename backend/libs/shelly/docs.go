package shelly

// ActionsDoc lists the url actions a plug supports.
type ActionsDoc struct {
	Active bool     `json:"active"`
	Names  []string `json:"names"`
}

// RelaySettingsDoc is the configuration of a single output channel, as returned by
// /settings/relay/{id} and embedded in /settings.
type RelaySettingsDoc struct {
	Name          *string  `json:"name"`
	ApplianceType string   `json:"appliance_type"`
	IsOn          bool     `json:"ison"`
	HasTimer      bool     `json:"has_timer"`
	Overpower     bool     `json:"overpower"`
	DefaultState  string   `json:"default_state"`
	AutoOn        float64  `json:"auto_on"`
	AutoOff       float64  `json:"auto_off"`
	Schedule      bool     `json:"schedule"`
	ScheduleRules []string `json:"schedule_rules"`
	MaxPower      float64  `json:"max_power"`
}

// SettingsDoc describes device capabilities.
type SettingsDoc struct {
	MaxPower        float64            `json:"max_power"`
	LEDPowerDisable bool               `json:"led_power_disable"`
	Actions         ActionsDoc         `json:"actions"`
	Relays          []RelaySettingsDoc `json:"relays"`
}

// RelayDoc is the live state of an output channel.
type RelayDoc struct {
	IsOn           bool    `json:"ison"`
	HasTimer       bool    `json:"has_timer"`
	TimerStarted   int64   `json:"timer_started"`
	TimerDuration  float64 `json:"timer_duration"`
	TimerRemaining float64 `json:"timer_remaining"`
	Overpower      bool    `json:"overpower"`
	Source         string  `json:"source"`
}

// MeterDoc is a power meter reading. Counters hold the energy of the last three round minutes
// in Watt-minute.
type MeterDoc struct {
	Power     float64    `json:"power"`
	Overpower float64    `json:"overpower"`
	IsValid   bool       `json:"is_valid"`
	Timestamp int64      `json:"timestamp"`
	Counters  [3]float64 `json:"counters"`
	Total     float64    `json:"total"`
}

// TemperatureDoc is the internal sensor block of /status.
type TemperatureDoc struct {
	Celsius    float64 `json:"tC"`
	Fahrenheit float64 `json:"tF"`
	IsValid    bool    `json:"is_valid"`
}

// StatusDoc is the combined live state returned by /status.
type StatusDoc struct {
	Relays          []RelayDoc     `json:"relays"`
	Meters          []MeterDoc     `json:"meters"`
	Temperature     float64        `json:"temperature"`
	Overtemperature bool           `json:"overtemperature"`
	Tmp             TemperatureDoc `json:"tmp"`
}
