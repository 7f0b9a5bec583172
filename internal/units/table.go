package units

// standard unit table. SI targets: m, m², m³, kg, K, Pa, m/s.
var standard = []Def{
	{"m", Length, 1, 0},
	{"cm", Length, 1e-2, 0},
	{"mm", Length, 1e-3, 0},
	{"inch", Length, 0.0254, 0},
	{"in", Length, 0.0254, 0},
	{"ft", Length, 0.3048, 0},

	{"m^2", Area, 1, 0},
	{"cm^2", Area, 1e-4, 0},
	{"mm^2", Area, 1e-6, 0},
	{"in^2", Area, 0.0254 * 0.0254, 0},

	{"m^3", Volume, 1, 0},
	{"L", Volume, 1e-3, 0},
	{"mL", Volume, 1e-6, 0},
	{"cm^3", Volume, 1e-6, 0},
	{"in^3", Volume, 0.0254 * 0.0254 * 0.0254, 0},

	{"kg", Mass, 1, 0},
	{"g", Mass, 1e-3, 0},
	{"lb", Mass, 0.45359237, 0},

	{"K", Temperature, 1, 0},
	{"degC", Temperature, 1, 273.15},
	{"degF", Temperature, 5.0 / 9.0, 459.67 * 5.0 / 9.0},
	{"degR", Temperature, 5.0 / 9.0, 0},

	{"Pa", Pressure, 1, 0},
	{"kPa", Pressure, 1e3, 0},
	{"MPa", Pressure, 1e6, 0},
	{"bar", Pressure, 1e5, 0},
	{"atm", Pressure, 101325, 0},
	{"psi", Pressure, 6894.757293168361, 0},
	{"torr", Pressure, 101325.0 / 760.0, 0},
	{"mmHg", Pressure, 133.322387415, 0},

	{"m/s", Velocity, 1, 0},
	{"cm/s", Velocity, 1e-2, 0},
	{"mm/s", Velocity, 1e-3, 0},
	{"ft/s", Velocity, 0.3048, 0},
	{"km/h", Velocity, 1000.0 / 3600.0, 0},
}
