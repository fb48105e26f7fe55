package fleet

import (
	"log/slog"
	"sort"
	"strings"

	lo "github.com/samber/lo"
)

// topTruckLimit caps the profit ranking of the dashboard.
const topTruckLimit = 10

// LoadVehicles indexes the vehicle master by trimmed truck id. Rows without
// a truck id are ignored; a later row for the same truck replaces an earlier one.
func LoadVehicles(vehicles Table) map[string]Vehicle {
	hm := HeaderMapOf(vehicles)
	out := map[string]Vehicle{}
	for _, rec := range vehicles.Records {
		raw := hm.Pick(rec, TruckIDKeys)
		if !Truthy(raw) {
			continue
		}
		id := strings.TrimSpace(Text(raw))
		truckType := Unknown
		if v := hm.Pick(rec, TruckTypeKeys); v != nil {
			truckType = Text(v)
		}
		out[id] = Vehicle{
			TruckID:     id,
			TruckType:   truckType,
			TrailerType: Text(hm.Pick(rec, TrailerTypeKeys)),
			Year:        Text(hm.Pick(rec, ModelYearKeys)),
		}
	}
	return out
}

// BuildDashboard reduces the cost, vehicle master and freight tables into the
// dashboard model. When both cost and freight are empty it returns the
// demonstration dataset instead; partial uploads are always aggregated.
func BuildDashboard(cost, vehicles, freight Table) Dashboard {
	if cost.Len() == 0 && freight.Len() == 0 {
		slog.Debug("dashboard.build.demo")
		return DemoDashboard()
	}

	b := newDashboardBuilder(LoadVehicles(vehicles))
	b.addFreight(freight)
	b.addCost(cost)
	d := b.finish()
	slog.Debug("dashboard.build.done",
		"cost", cost.Len(),
		"freight", freight.Len(),
		"vehicles", vehicles.Len(),
		"months", len(d.RevenueVsCosts),
		"fleet", d.KPIs.TotalFleetSize)
	return d
}

type maintenanceAcc struct {
	year   string
	total  float64
	types  []string
	byType map[string]float64
}

type dashboardBuilder struct {
	vehicles map[string]Vehicle

	monthly     *ledger[MonthlyRow]
	fuelTrend   *ledger[FuelTrendRow]
	costByType  *ledger[TruckTypeCost]
	effByType   *ledger[TruckTypeEfficiency]
	maintenance *ledger[maintenanceAcc]
	trucks      *ledger[TopTruck]
	truckIDs    map[string]struct{}

	totalRevenue     float64
	totalFuel        float64
	totalMaintenance float64
	totalFixed       float64
	totalKm          float64
	totalLiters      float64
}

func newDashboardBuilder(vehicles map[string]Vehicle) *dashboardBuilder {
	return &dashboardBuilder{
		vehicles:    vehicles,
		monthly:     newLedger[MonthlyRow](),
		fuelTrend:   newLedger[FuelTrendRow](),
		costByType:  newLedger[TruckTypeCost](),
		effByType:   newLedger[TruckTypeEfficiency](),
		maintenance: newLedger[maintenanceAcc](),
		trucks:      newLedger[TopTruck](),
		truckIDs:    map[string]struct{}{},
	}
}

func (b *dashboardBuilder) month(period string) *MonthlyRow {
	return b.monthly.at(period, func() MonthlyRow { return MonthlyRow{Month: period} })
}

func (b *dashboardBuilder) truck(id, truckType string) *TopTruck {
	b.truckIDs[id] = struct{}{}
	return b.trucks.at(id, func() TopTruck {
		return TopTruck{TruckID: id, TruckType: truckType, Year: b.vehicles[id].Year}
	})
}

func (b *dashboardBuilder) addFreight(freight Table) {
	hm := HeaderMapOf(freight)
	for _, rec := range freight.Records {
		truckID := hm.PickText(rec, TruckIDKeys)
		revenue := hm.PickNumber(rec, RevenueKeys)
		period := hm.PickPeriod(rec, FreightDateKeys)

		b.month(period).Revenue += revenue
		b.totalRevenue += revenue

		if truckID == "" {
			continue
		}
		truckType := Unknown
		if v, ok := b.vehicles[truckID]; ok && v.TruckType != "" {
			truckType = v.TruckType
		}
		t := b.truck(truckID, truckType)
		t.Revenue += revenue
		t.Profit = t.Revenue - t.TotalCost
	}
}

func (b *dashboardBuilder) addCost(cost Table) {
	hm := HeaderMapOf(cost)
	for _, rec := range cost.Records {
		truckID := hm.PickText(rec, TruckIDKeys)
		truckType := b.resolveType(truckID, hm.PickText(rec, TruckTypeKeys))

		fuel := hm.PickNumber(rec, FuelCostKeys)
		maintenance := hm.PickNumber(rec, MaintenanceKeys)
		fixed := hm.PickNumber(rec, FixedCostKeys)
		km := hm.PickNumber(rec, KmKeys)
		liters := hm.PickNumber(rec, LiterKeys)
		rowCost := fuel + maintenance + fixed

		b.totalFuel += fuel
		b.totalMaintenance += maintenance
		b.totalFixed += fixed
		b.totalKm += km
		b.totalLiters += liters

		period := hm.PickPeriod(rec, CostDateKeys)
		m := b.month(period)
		m.Fuel += fuel
		m.Maintenance += maintenance
		m.FixedCosts += fixed

		b.fuelTrend.at(period, func() FuelTrendRow { return FuelTrendRow{Month: period} }).Liters += liters

		year := YearOf(period)
		y := b.maintenance.at(year, func() maintenanceAcc {
			return maintenanceAcc{year: year, byType: map[string]float64{}}
		})
		y.total += maintenance
		if _, seen := y.byType[truckType]; !seen {
			y.types = append(y.types, truckType)
		}
		y.byType[truckType] += maintenance

		c := b.costByType.at(truckType, func() TruckTypeCost { return TruckTypeCost{TruckType: truckType} })
		c.TotalFuel += fuel
		c.TotalMaintenance += maintenance
		c.TotalFixedCosts += fixed
		c.TotalCost += rowCost
		c.TotalKm += km

		e := b.effByType.at(truckType, func() TruckTypeEfficiency { return TruckTypeEfficiency{TruckType: truckType} })
		e.TotalLiters += liters
		e.TotalKm += km

		if truckID == "" {
			continue
		}
		t := b.truck(truckID, truckType)
		if t.TruckType == Unknown && truckType != Unknown {
			t.TruckType = truckType
		}
		t.TotalCost += rowCost
		t.KmTraveled += km
		t.Profit = t.Revenue - t.TotalCost
	}
}

// resolveType prefers the vehicle master, then the row's own truck type.
func (b *dashboardBuilder) resolveType(truckID, rowType string) string {
	if v, ok := b.vehicles[truckID]; ok && v.TruckType != "" {
		return v.TruckType
	}
	if rowType != "" {
		return rowType
	}
	return Unknown
}

func (b *dashboardBuilder) finish() Dashboard {
	monthly := b.monthly.values()
	sort.SliceStable(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month })

	trend := b.fuelTrend.values()
	sort.SliceStable(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })

	maintenance := lo.Map(b.maintenance.values(), func(acc maintenanceAcc, _ int) MaintenanceYear {
		return MaintenanceYear{Year: acc.year, Total: acc.total, Types: acc.types, ByType: acc.byType}
	})
	sort.SliceStable(maintenance, func(i, j int) bool { return maintenance[i].Year < maintenance[j].Year })
	var maintenanceTypes []string
	for _, y := range maintenance {
		maintenanceTypes = append(maintenanceTypes, y.Types...)
	}
	maintenanceTypes = lo.Uniq(maintenanceTypes)
	sort.Strings(maintenanceTypes)

	costByType := b.costByType.values()
	for i := range costByType {
		costByType[i].CostPerKm = ratio(costByType[i].TotalCost, costByType[i].TotalKm)
	}
	effByType := b.effByType.values()
	for i := range effByType {
		effByType[i].Efficiency = ratio(effByType[i].TotalKm, effByType[i].TotalLiters)
	}

	trucks := b.trucks.values()
	for i := range trucks {
		trucks[i].CostPerKm = ratio(trucks[i].TotalCost, trucks[i].KmTraveled)
	}
	sort.SliceStable(trucks, func(i, j int) bool { return trucks[i].Profit > trucks[j].Profit })
	trucks = lo.Subset(trucks, 0, topTruckLimit)

	totalCosts := b.totalFuel + b.totalMaintenance + b.totalFixed
	profit := b.totalRevenue - totalCosts
	fleetSize := len(b.truckIDs)
	if fleetSize == 0 {
		fleetSize = len(b.vehicles)
	}

	return Dashboard{
		KPIs: KPIs{
			TotalRevenue:      b.totalRevenue,
			TotalCosts:        totalCosts,
			Profit:            profit,
			ProfitMargin:      ratio(profit, b.totalRevenue) * 100,
			TotalFleetSize:    fleetSize,
			TotalKmTraveled:   b.totalKm,
			TotalFuelConsumed: b.totalLiters,
			AvgFuelEfficiency: ratio(b.totalKm, b.totalLiters),
		},
		RevenueVsCosts:        monthly,
		CostByTruckType:       costByType,
		FuelEfficiency:        effByType,
		FuelTrend:             trend,
		MaintenanceByYear:     maintenance,
		MaintenanceTruckTypes: maintenanceTypes,
		TopTrucks:             trucks,
	}
}
