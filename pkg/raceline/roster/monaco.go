package roster

// Monaco2025 is the race used by the bundled scenario.
var Monaco2025 = Race{
	ID:        "monaco-2025",
	Name:      "Grand Prix de Monaco 2025",
	Circuit:   "Monaco",
	TotalLaps: 5,
}

// MonacoDrivers returns the four drivers of the bundled scenario.
func MonacoDrivers() []Driver {
	return []Driver{
		{ID: "leclerc", Name: "Charles Leclerc", Team: "Ferrari"},
		{ID: "sainz", Name: "Carlos Sainz", Team: "Ferrari"},
		{ID: "hamilton", Name: "Lewis Hamilton", Team: "Mercedes"},
		{ID: "russell", Name: "George Russell", Team: "Mercedes"},
	}
}
