package csv

import (
	"encoding/csv"
	"fleetlens/domain/fleet"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
)

// Output file names, one per dashboard table.
const (
	KPIsFile            = "kpis.csv"
	RevenueVsCostsFile  = "revenue_vs_costs.csv"
	CostByTruckTypeFile = "cost_by_truck_type.csv"
	FuelEfficiencyFile  = "fuel_efficiency.csv"
	FuelTrendFile       = "fuel_trend.csv"
	MaintenanceFile     = "maintenance_by_year.csv"
	TopTrucksFile       = "top_trucks.csv"
)

// WriteDashboardCSVs writes every dashboard table into dir.
func WriteDashboardCSVs(dir string, d fleet.Dashboard) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		file  string
		write func(path string, d fleet.Dashboard) error
	}{
		{KPIsFile, WriteKPIsCSV},
		{RevenueVsCostsFile, WriteRevenueVsCostsCSV},
		{CostByTruckTypeFile, WriteCostByTruckTypeCSV},
		{FuelEfficiencyFile, WriteFuelEfficiencyCSV},
		{FuelTrendFile, WriteFuelTrendCSV},
		{MaintenanceFile, WriteMaintenanceCSV},
		{TopTrucksFile, WriteTopTrucksCSV},
	}
	for _, w := range writers {
		if err := w.write(filepath.Join(dir, w.file), d); err != nil {
			return fmt.Errorf("write %s: %w", w.file, err)
		}
	}
	return nil
}

func WriteKPIsCSV(path string, d fleet.Dashboard) error {
	k := d.KPIs
	return writeRows(path, []string{"metric", "value"}, [][]string{
		{"total_revenue", money(k.TotalRevenue)},
		{"total_costs", money(k.TotalCosts)},
		{"profit", money(k.Profit)},
		{"profit_margin", money(k.ProfitMargin)},
		{"total_fleet_size", strconv.Itoa(k.TotalFleetSize)},
		{"total_km_traveled", money(k.TotalKmTraveled)},
		{"total_fuel_consumed", money(k.TotalFuelConsumed)},
		{"avg_fuel_efficiency", money(k.AvgFuelEfficiency)},
	})
}

func WriteRevenueVsCostsCSV(path string, d fleet.Dashboard) error {
	rows := make([][]string, 0, len(d.RevenueVsCosts))
	for _, m := range d.RevenueVsCosts {
		rows = append(rows, []string{m.Month, money(m.Revenue), money(m.Fuel), money(m.Maintenance), money(m.FixedCosts)})
	}
	return writeRows(path, []string{"month", "revenue", "fuel", "maintenance", "fixed_costs"}, rows)
}

func WriteCostByTruckTypeCSV(path string, d fleet.Dashboard) error {
	rows := make([][]string, 0, len(d.CostByTruckType))
	for _, c := range d.CostByTruckType {
		rows = append(rows, []string{
			c.TruckType,
			perKm(c.CostPerKm),
			money(c.TotalFuel),
			money(c.TotalMaintenance),
			money(c.TotalFixedCosts),
			money(c.TotalCost),
			money(c.TotalKm),
		})
	}
	headers := []string{"truck_type", "cost_per_km", "total_fuel", "total_maintenance", "total_fixed_costs", "total_cost", "total_km"}
	return writeRows(path, headers, rows)
}

func WriteFuelEfficiencyCSV(path string, d fleet.Dashboard) error {
	rows := make([][]string, 0, len(d.FuelEfficiency))
	for _, e := range d.FuelEfficiency {
		rows = append(rows, []string{e.TruckType, money(e.Efficiency), money(e.TotalLiters), money(e.TotalKm)})
	}
	return writeRows(path, []string{"truck_type", "efficiency", "total_liters", "total_km"}, rows)
}

func WriteFuelTrendCSV(path string, d fleet.Dashboard) error {
	rows := make([][]string, 0, len(d.FuelTrend))
	for _, f := range d.FuelTrend {
		rows = append(rows, []string{f.Month, money(f.Liters)})
	}
	return writeRows(path, []string{"month", "liters"}, rows)
}

// WriteMaintenanceCSV writes one row per year with one column per truck type.
// Types absent from a year are written as 0.
func WriteMaintenanceCSV(path string, d fleet.Dashboard) error {
	headers := append([]string{"year", "total"}, d.MaintenanceTruckTypes...)
	rows := make([][]string, 0, len(d.MaintenanceByYear))
	for _, y := range d.MaintenanceByYear {
		row := []string{y.Year, money(y.Total)}
		for _, typ := range d.MaintenanceTruckTypes {
			row = append(row, money(y.ByType[typ]))
		}
		rows = append(rows, row)
	}
	return writeRows(path, headers, rows)
}

func WriteTopTrucksCSV(path string, d fleet.Dashboard) error {
	rows := make([][]string, 0, len(d.TopTrucks))
	for _, t := range d.TopTrucks {
		rows = append(rows, []string{
			t.TruckID,
			t.TruckType,
			t.Year,
			money(t.Revenue),
			money(t.TotalCost),
			money(t.Profit),
			money(t.KmTraveled),
			perKm(t.CostPerKm),
		})
	}
	headers := []string{"truck_id", "truck_type", "year", "revenue", "total_cost", "profit", "km_traveled", "cost_per_km"}
	return writeRows(path, headers, rows)
}

func writeRows(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// money rounds to cents.
func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// perKm keeps three decimals, enough for cost per km.
func perKm(v float64) string {
	return decimal.NewFromFloat(v).Round(3).String()
}
