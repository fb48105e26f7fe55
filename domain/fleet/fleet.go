package fleet

// Vehicle is one row of the vehicle master, keyed by trimmed truck id.
type Vehicle struct {
	TruckID     string
	TruckType   string // "Unknown" when the master has no truck type column
	TrailerType string
	Year        string
}

// KPIs is the headline block shared by the dashboard and the ask context.
type KPIs struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalCosts        float64 `json:"totalCosts"`
	Profit            float64 `json:"profit"`
	ProfitMargin      float64 `json:"profitMargin"`
	TotalFleetSize    int     `json:"totalFleetSize"`
	TotalKmTraveled   float64 `json:"totalKmTraveled"`
	TotalFuelConsumed float64 `json:"totalFuelConsumed"`
	AvgFuelEfficiency float64 `json:"avgFuelEfficiency"`
}

// MonthlyRow is revenue against the three cost components for one period.
type MonthlyRow struct {
	Month       string  `json:"month"`
	Revenue     float64 `json:"revenue"`
	Fuel        float64 `json:"fuel"`
	Maintenance float64 `json:"maintenance"`
	FixedCosts  float64 `json:"fixedCosts"`
}

// TruckTypeCost aggregates the cost rows of one truck type.
type TruckTypeCost struct {
	TruckType        string  `json:"truckType"`
	CostPerKm        float64 `json:"costPerKm"`
	TotalFuel        float64 `json:"totalFuel"`
	TotalMaintenance float64 `json:"totalMaintenance"`
	TotalFixedCosts  float64 `json:"totalFixedCosts"`
	TotalCost        float64 `json:"totalCost"`
	TotalKm          float64 `json:"totalKm"`
}

// TruckTypeEfficiency is km per liter for one truck type.
type TruckTypeEfficiency struct {
	TruckType   string  `json:"truckType"`
	Efficiency  float64 `json:"efficiency"`
	TotalLiters float64 `json:"totalLiters"`
	TotalKm     float64 `json:"totalKm"`
}

// FuelTrendRow is the fuel volume consumed in one period.
type FuelTrendRow struct {
	Month  string  `json:"month"`
	Liters float64 `json:"liters"`
}

// MaintenanceYear is the maintenance spend of one year, split by the truck
// types seen in that year. Types lists the keys of ByType in first-seen order.
type MaintenanceYear struct {
	Year   string             `json:"year"`
	Total  float64            `json:"total"`
	Types  []string           `json:"types"`
	ByType map[string]float64 `json:"byType"`
}

// TopTruck is the profit line of one truck.
type TopTruck struct {
	TruckID    string  `json:"truckId"`
	TruckType  string  `json:"truckType"`
	Year       string  `json:"year,omitempty"`
	Revenue    float64 `json:"revenue"`
	TotalCost  float64 `json:"totalCost"`
	Profit     float64 `json:"profit"`
	KmTraveled float64 `json:"kmTraveled"`
	CostPerKm  float64 `json:"costPerKm"`
}

// Dashboard is the render-ready model: KPIs plus the chart tables.
type Dashboard struct {
	KPIs                  KPIs                  `json:"kpis"`
	RevenueVsCosts        []MonthlyRow          `json:"revenueVsCosts"`
	CostByTruckType       []TruckTypeCost       `json:"costByTruckType"`
	FuelEfficiency        []TruckTypeEfficiency `json:"fuelEfficiency"`
	FuelTrend             []FuelTrendRow        `json:"fuelTrend"`
	MaintenanceByYear     []MaintenanceYear     `json:"maintenanceByYear"`
	MaintenanceTruckTypes []string              `json:"maintenanceTruckTypes"`
	TopTrucks             []TopTruck            `json:"topTrucks"`
}

// ledger keeps one accumulator per key in first-seen order.
type ledger[T any] struct {
	index map[string]*T
	order []string
}

func newLedger[T any]() *ledger[T] {
	return &ledger[T]{index: map[string]*T{}}
}

// at returns the accumulator for key, creating it with init on first use.
func (l *ledger[T]) at(key string, init func() T) *T {
	if v, ok := l.index[key]; ok {
		return v
	}
	v := init()
	l.index[key] = &v
	l.order = append(l.order, key)
	return &v
}

// values copies the accumulators out in first-seen order.
func (l *ledger[T]) values() []T {
	out := make([]T, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.index[k])
	}
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
