package fleet

// DemoDashboard returns the sample dashboard shown before any cost or freight
// data is uploaded. Every call returns a fresh copy.
func DemoDashboard() Dashboard {
	return Dashboard{
		KPIs: KPIs{
			TotalRevenue:      5461023.69,
			TotalCosts:        3771645.7,
			Profit:            1689377.99,
			ProfitMargin:      30.94,
			TotalFleetSize:    23,
			TotalKmTraveled:   1267630.0,
			TotalFuelConsumed: 269137.71,
			AvgFuelEfficiency: 4.72,
		},
		RevenueVsCosts: []MonthlyRow{
			{Month: "2018-01", Revenue: 260988.32, Fuel: 42344.65, Maintenance: 11890.88, FixedCosts: 138768.12},
			{Month: "2018-02", Revenue: 240046.95, Fuel: 41072.14, Maintenance: 9683.1, FixedCosts: 140060.93},
			{Month: "2018-03", Revenue: 290943.43, Fuel: 42606.23, Maintenance: 16039.25, FixedCosts: 139988.4},
			{Month: "2018-04", Revenue: 279992.68, Fuel: 42087.55, Maintenance: 13074.3, FixedCosts: 139827.31},
			{Month: "2018-05", Revenue: 303154.03, Fuel: 43169.56, Maintenance: 9839.19, FixedCosts: 139913.72},
			{Month: "2018-06", Revenue: 282729.57, Fuel: 42644.65, Maintenance: 16337.23, FixedCosts: 139893.26},
		},
		CostByTruckType: []TruckTypeCost{
			{TruckType: "BOX", CostPerKm: 2.507, TotalFuel: 144854.86, TotalMaintenance: 47754.52, TotalFixedCosts: 221639.02, TotalCost: 414248.4, TotalKm: 165267.0},
			{TruckType: "SEMI-TRAILER", CostPerKm: 3.139, TotalFuel: 184047.93, TotalMaintenance: 60293.97, TotalFixedCosts: 327667.91, TotalCost: 572009.81, TotalKm: 182215.0},
			{TruckType: "TRACTOR", CostPerKm: 2.833, TotalFuel: 148653.26, TotalMaintenance: 35561.62, TotalFixedCosts: 185999.06, TotalCost: 370213.94, TotalKm: 130682.0},
			{TruckType: "TRAILER", CostPerKm: 2.562, TotalFuel: 424338.84, TotalMaintenance: 123796.39, TotalFixedCosts: 943004.78, TotalCost: 1491139.99, TotalKm: 789466.0},
		},
		FuelEfficiency: []TruckTypeEfficiency{
			{TruckType: "BOX", Efficiency: 4.15, TotalLiters: 46329.98, TotalKm: 165267.0},
			{TruckType: "SEMI-TRAILER", Efficiency: 3.43, TotalLiters: 58848.67, TotalKm: 182215.0},
			{TruckType: "TRACTOR", Efficiency: 3.0, TotalLiters: 47531.75, TotalKm: 130682.0},
			{TruckType: "TRAILER", Efficiency: 5.47, TotalLiters: 116427.31, TotalKm: 789466.0},
		},
		FuelTrend: []FuelTrendRow{
			{Month: "2018-01", Liters: 21451.79},
			{Month: "2018-02", Liters: 20800.71},
			{Month: "2018-03", Liters: 21589.7},
			{Month: "2018-04", Liters: 21322.23},
			{Month: "2018-05", Liters: 21871.48},
			{Month: "2018-06", Liters: 21605.51},
		},
		MaintenanceByYear:     []MaintenanceYear{},
		MaintenanceTruckTypes: []string{},
		TopTrucks: []TopTruck{
			{TruckID: "23", TruckType: "TRAILER", Year: "2014", Revenue: 701472.71, TotalCost: 242823.24, Profit: 458649.47, KmTraveled: 105966.0, CostPerKm: 2.291},
			{TruckID: "17", TruckType: "TRACTOR", Year: "2011", Revenue: 527629.53, TotalCost: 370213.94, Profit: 157415.59, KmTraveled: 130682.0, CostPerKm: 2.833},
			{TruckID: "2", TruckType: "SEMI-TRAILER", Year: "2011", Revenue: 350831.42, TotalCost: 225632.71, Profit: 125198.71, KmTraveled: 72021.0, CostPerKm: 3.133},
			{TruckID: "36", TruckType: "SEMI-TRAILER", Year: "2014", Revenue: 334991.99, TotalCost: 225611.06, Profit: 109380.93, KmTraveled: 71929.0, CostPerKm: 3.137},
			{TruckID: "29", TruckType: "TRAILER", Year: "2008", Revenue: 329686.93, TotalCost: 241983.08, Profit: 87703.85, KmTraveled: 105612.0, CostPerKm: 2.291},
		},
	}
}
