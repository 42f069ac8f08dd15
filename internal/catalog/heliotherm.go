// internal/catalog/heliotherm.go
package catalog

// Heliotherm returns the descriptors for the Heliotherm heat-pump
// holding-register map. Addresses are decimal, matching the vendor
// documentation.
func Heliotherm() []Descriptor {
	return []Descriptor{
		// ---- temperatures (100..107) ----
		{Key: "supply_temperature", Name: "Supply Temperature", Addr: 100, Type: Float32, Unit: "°C"},
		{Key: "setpoint_temperature", Name: "Setpoint Temperature", Addr: 102, Type: Int16, Scale: 0.1,
			Access: ReadWrite, Min: ptr(5), Max: ptr(30), Unit: "°C"},
		{Key: "return_temperature", Name: "Return Temperature", Addr: 104, Type: Float32, Unit: "°C"},
		{Key: "outside_temperature", Name: "Outside Temperature", Addr: 106, Type: Float32, Unit: "°C"},

		// ---- status words (110..112) ----
		{Key: "pump_status", Name: "Pump Status", Addr: 110, Type: Bool},
		{Key: "operating_mode", Name: "Operating Mode", Addr: 111, Type: Int16}, // 0=heat 1=cool 2=standby
		{Key: "device_status", Name: "Device Status", Addr: 112, Type: UInt16},

		// ---- hydraulics and power (120..143) ----
		{Key: "system_pressure", Name: "System Pressure", Addr: 120, Type: Float32, Unit: "bar"},
		{Key: "power_output", Name: "Power Output", Addr: 130, Type: Float32, Unit: "kW"},
		{Key: "coefficient_of_performance", Name: "Coefficient of Performance", Addr: 132, Type: Float32},
		{Key: "compressor_power_input", Name: "Compressor Power Input", Addr: 140, Type: Float32, Unit: "kW"},
		{Key: "flow_rate", Name: "Flow Rate", Addr: 142, Type: Float32, Unit: "l/min"},

		// ---- counters (150..155) ----
		{Key: "operating_hours", Name: "Operating Hours", Addr: 150, Type: UInt16, Unit: "h"},
		{Key: "error_code", Name: "Error Code", Addr: 151, Type: UInt16},
		{Key: "energy_total", Name: "Total Energy", Addr: 152, Type: UInt32, Scale: 0.1, Unit: "kWh"},
		{Key: "compressor_starts", Name: "Compressor Starts", Addr: 154, Type: UInt32},

		// ---- switches (200..203) ----
		{Key: "circulation_pump", Name: "Circulation Pump", Addr: 200, Type: Bool, Access: ReadWrite},
		{Key: "auxiliary_heater", Name: "Auxiliary Heater", Addr: 201, Type: Bool, Access: ReadWrite},
		{Key: "compressor_enable", Name: "Compressor Enable", Addr: 202, Type: Bool, Access: ReadWrite},
		{Key: "hot_water_pump", Name: "Hot Water Circulation Pump", Addr: 203, Type: Bool, Access: ReadWrite},

		// ---- setpoints (300..311) ----
		{Key: "target_supply_temperature", Name: "Target Supply Temperature", Addr: 300, Type: Float32,
			Access: ReadWrite, Min: ptr(10), Max: ptr(60), Unit: "°C"},
		{Key: "target_room_temperature", Name: "Target Room Temperature", Addr: 302, Type: Int16, Scale: 0.1,
			Access: ReadWrite, Min: ptr(10), Max: ptr(30), Unit: "°C"},
		{Key: "target_dhw_temperature", Name: "Target DHW Temperature", Addr: 304, Type: Int16, Scale: 0.1,
			Access: ReadWrite, Min: ptr(30), Max: ptr(65), Unit: "°C"},
		{Key: "compressor_frequency_target", Name: "Compressor Frequency Target", Addr: 306, Type: Int16,
			Access: ReadWrite, Min: ptr(0), Max: ptr(120), Unit: "Hz"},
		{Key: "max_pressure_setpoint", Name: "Maximum Pressure Setpoint", Addr: 308, Type: Float32,
			Access: ReadWrite, Min: ptr(1), Max: ptr(35), Unit: "bar"},
		{Key: "min_pressure_setpoint", Name: "Minimum Pressure Setpoint", Addr: 310, Type: Float32,
			Access: ReadWrite, Min: ptr(1), Max: ptr(35), Unit: "bar"},
	}
}
