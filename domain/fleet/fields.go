package fleet

// Accepted header spellings per semantic field, in priority order.
// Each spelling is compared after NormalizeHeader, never fuzzily.
var (
	TruckIDKeys     = []string{"truck id", "truckid", "vehicle id", "id"}
	DriveIDKeys     = []string{"drive id", "driver id", "id"}
	DriverNameKeys  = []string{"driver", "driver name", "name"}
	TruckTypeKeys   = []string{"truck type", "trucktype"}
	TrailerTypeKeys = []string{"trailers type", "trailer type", "trailer"}
	ModelYearKeys   = []string{"year"}

	// DriveEfficiencyKeys leaves out the bare "id" so a truck id column is
	// never mistaken for a driver.
	DriveEfficiencyKeys = []string{"drive id", "driver id"}

	RevenueKeys     = []string{"net revenue", "revenue", "freight revenue", "amount", "total revenue"}
	FreightDateKeys = []string{"date", "freight date", "invoice date"}
	CostDateKeys    = []string{"date", "transaction date", "service date"}

	FuelCostKeys    = []string{"fuel", "fuel cost", "fuelcost"}
	MaintenanceKeys = []string{"maintenance", "maintenance cost", "service cost"}
	FixedCostKeys   = []string{"fixed costs", "fixed cost", "fixed"}

	KmKeys = []string{
		"km",
		"km traveled",
		"km travelled",
		"kmtraveled",
		"kmtravelled",
		"kilometers",
		"kilometres",
		"distance",
		"kms",
		"mileage",
	}
	LiterKeys = []string{"liters", "litres", "fuel consumed", "fuel liters", "fuelconsumed"}
)
