package fleet

import (
	"log/slog"
	"sort"
	"strings"

	lo "github.com/samber/lo"
)

const (
	// askListLimit caps every ranked list handed to the question-answering service.
	askListLimit = 15

	// AttributionYear is the year broken out in RevenueByDrive.Top2018.
	AttributionYear = "2018"

	// JoinMethod tells the question-answering service how revenue reached a driver.
	JoinMethod = "Freight rows joined to cost rows by Truck ID + Month; Drive ID picked by max KM within that key."

	fieldAvailable = "available"
	fieldMissing   = "missing"
)

// AskContext is the JSON snapshot handed to the question-answering service
// together with a free-text question.
type AskContext struct {
	KPIs                  KPIs                  `json:"kpis"`
	RowCounts             RowCounts             `json:"rowCounts"`
	AvailableColumns      AvailableColumns      `json:"availableColumns"`
	EfficiencyByDrive     []DriverEfficiencyRow `json:"efficiencyByDrive"`
	EfficiencyByTruck     []EfficiencyRow       `json:"efficiencyByTruck"`
	EfficiencyByTruckType []EfficiencyRow       `json:"efficiencyByTruckType"`
	DriverFields          DriverFields          `json:"driverFields"`
	VehicleFields         VehicleFields         `json:"vehicleFields"`
	FreightFields         FreightFields         `json:"freightFields"`
	RevenueByDrive        DriverRevenue         `json:"revenueByDrive"`
}

// RowCounts is the number of records uploaded per source.
type RowCounts struct {
	Cost     int `json:"cost"`
	Freight  int `json:"freight"`
	Vehicles int `json:"vehicles"`
	Drivers  int `json:"drivers"`
}

// AvailableColumns lists the original headers found per source.
type AvailableColumns struct {
	Cost     []string `json:"cost"`
	Freight  []string `json:"freight"`
	Vehicles []string `json:"vehicles"`
	Drivers  []string `json:"drivers"`
}

// DriverEfficiencyRow is an efficiency row keyed by driver, with the name
// from the driver master.
type DriverEfficiencyRow struct {
	EfficiencyRow
	DriverName string `json:"driverName"`
}

// DriverFields reports "available" or "missing" for the driver master.
type DriverFields struct {
	DriveID    string `json:"driveId"`
	DriverName string `json:"driverName"`
}

// VehicleFields reports "available" or "missing" for the vehicle master.
type VehicleFields struct {
	TruckID   string `json:"truckId"`
	TruckType string `json:"truckType"`
}

// FreightFields reports "available" or "missing" for the freight table.
type FreightFields struct {
	TruckID string `json:"truckId"`
	Revenue string `json:"revenue"`
}

// DriverRevenue is freight revenue attributed to drivers through the
// DriveIndex, with the share of freight rows that found a driver.
type DriverRevenue struct {
	JoinMethod   string             `json:"joinMethod"`
	JoinCoverage Coverage           `json:"joinCoverage"`
	TopOverall   []DriverRevenueRow `json:"topOverall"`
	Top2018      []DriverRevenueRow `json:"top2018"`
}

// Coverage counts freight rows matched to a driver out of all freight rows.
type Coverage struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// DriverRevenueRow is the revenue attributed to one driver.
type DriverRevenueRow struct {
	DriveID    string  `json:"driveId"`
	DriverName string  `json:"driverName"`
	Revenue    float64 `json:"revenue"`
}

// LoadDriverNames maps driver id to driver name from the driver master.
// Rows missing either value are ignored.
func LoadDriverNames(drivers Table) map[string]string {
	hm := HeaderMapOf(drivers)
	names := map[string]string{}
	for _, rec := range drivers.Records {
		id := hm.Pick(rec, DriveIDKeys)
		name := hm.Pick(rec, DriverNameKeys)
		if !Truthy(id) || !Truthy(name) {
			continue
		}
		names[strings.TrimSpace(Text(id))] = strings.TrimSpace(Text(name))
	}
	return names
}

// AttributeRevenue runs every freight row through the drive index and sums
// the revenue of matched rows per driver, overall and per year.
func AttributeRevenue(freight Table, ix DriveIndex) (overall map[string]float64, byYear map[string]map[string]float64, coverage Coverage) {
	hm := HeaderMapOf(freight)
	overall = map[string]float64{}
	byYear = map[string]map[string]float64{}
	for _, rec := range freight.Records {
		coverage.Total++
		truckID := hm.PickText(rec, TruckIDKeys)
		revenue := hm.PickNumber(rec, RevenueKeys)
		period := hm.PickPeriod(rec, FreightDateKeys)
		a, ok := ix.Lookup(truckID, period)
		if !ok {
			continue
		}
		coverage.Matched++
		overall[a.DriveID] += revenue
		year := YearOf(period)
		if byYear[year] == nil {
			byYear[year] = map[string]float64{}
		}
		byYear[year][a.DriveID] += revenue
	}
	return overall, byYear, coverage
}

// BuildAskContext assembles the question-answering snapshot from all four
// sources. Its KPI block is the dashboard's, demonstration data included.
func BuildAskContext(src Sources) AskContext {
	costHM := HeaderMapOf(src.Cost)
	vehicleHM := HeaderMapOf(src.Vehicles)
	freightHM := HeaderMapOf(src.Freight)
	driverHM := HeaderMapOf(src.Drivers)

	names := LoadDriverNames(src.Drivers)
	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return Unknown
	}

	dashboard := BuildDashboard(src.Cost, src.Vehicles, src.Freight)
	ix := BuildDriveIndex(src.Cost, costHM)

	byDrive := lo.Map(BuildEfficiency(src.Cost, costHM, DriveEfficiencyKeys), func(r EfficiencyRow, _ int) DriverEfficiencyRow {
		return DriverEfficiencyRow{EfficiencyRow: r, DriverName: nameOf(r.ID)}
	})

	overall, byYear, coverage := AttributeRevenue(src.Freight, ix)
	revenueList := func(m map[string]float64) []DriverRevenueRow {
		rows := make([]DriverRevenueRow, 0, len(m))
		for id, rev := range m {
			rows = append(rows, DriverRevenueRow{DriveID: id, DriverName: nameOf(id), Revenue: rev})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Revenue != rows[j].Revenue {
				return rows[i].Revenue > rows[j].Revenue
			}
			return rows[i].DriveID < rows[j].DriveID
		})
		return lo.Subset(rows, 0, askListLimit)
	}

	availability := func(t Table, hm HeaderMap, spellings []string) string {
		if Truthy(hm.Pick(t.First(), spellings)) {
			return fieldAvailable
		}
		return fieldMissing
	}

	ctx := AskContext{
		KPIs: dashboard.KPIs,
		RowCounts: RowCounts{
			Cost:     src.Cost.Len(),
			Freight:  src.Freight.Len(),
			Vehicles: src.Vehicles.Len(),
			Drivers:  src.Drivers.Len(),
		},
		AvailableColumns: AvailableColumns{
			Cost:     src.Cost.Headers(),
			Freight:  src.Freight.Headers(),
			Vehicles: src.Vehicles.Headers(),
			Drivers:  src.Drivers.Headers(),
		},
		EfficiencyByDrive:     lo.Subset(byDrive, 0, askListLimit),
		EfficiencyByTruck:     lo.Subset(BuildEfficiency(src.Cost, costHM, TruckIDKeys), 0, askListLimit),
		EfficiencyByTruckType: lo.Subset(BuildEfficiency(src.Cost, costHM, TruckTypeKeys), 0, askListLimit),
		DriverFields: DriverFields{
			DriveID:    availability(src.Drivers, driverHM, DriveIDKeys),
			DriverName: availability(src.Drivers, driverHM, DriverNameKeys),
		},
		VehicleFields: VehicleFields{
			TruckID:   availability(src.Vehicles, vehicleHM, TruckIDKeys),
			TruckType: availability(src.Vehicles, vehicleHM, TruckTypeKeys),
		},
		FreightFields: FreightFields{
			TruckID: availability(src.Freight, freightHM, TruckIDKeys),
			Revenue: availability(src.Freight, freightHM, RevenueKeys),
		},
		RevenueByDrive: DriverRevenue{
			JoinMethod:   JoinMethod,
			JoinCoverage: coverage,
			TopOverall:   revenueList(overall),
			Top2018:      revenueList(byYear[AttributionYear]),
		},
	}
	slog.Debug("ask.context.done", "matched", coverage.Matched, "total", coverage.Total, "drivers", len(overall))
	return ctx
}
