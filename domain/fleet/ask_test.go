package fleet

import (
	"encoding/json"
	"fmt"
	"testing"
)

func askSources() Sources {
	cost := table(
		Record{"Truck ID": "T1", "Drive ID": "D1", "Date": "2018-01-05", "KM": "400", "Liters": "100", "Fuel": "50"},
		Record{"Truck ID": "T1", "Drive ID": "D9", "Date": "2018-01-20", "KM": "100", "Liters": "10", "Fuel": "20"},
		Record{"Truck ID": "T2", "Drive ID": "D2", "Date": "2019-02-11", "KM": "300", "Liters": "60", "Fuel": "40"},
	)
	freight := table(
		Record{"Truck ID": "T1", "Date": "2018-01-02", "Revenue": "100"},
		Record{"Truck ID": "T1", "Date": "2018-01-09", "Revenue": "100"},
		Record{"Truck ID": "T1", "Date": "2018-01-15", "Revenue": "100"},
		Record{"Truck ID": "T1", "Date": "2018-01-28", "Revenue": "100"},
		Record{"Truck ID": "T2", "Date": "2019-02-01", "Revenue": "250"},
		Record{"Truck ID": "T2", "Date": "2019-02-03", "Revenue": "250"},
		Record{"Truck ID": "T3", "Date": "2018-01-02", "Revenue": "10"},
		Record{"Truck ID": "T3", "Date": "2018-01-03", "Revenue": "10"},
		Record{"Truck ID": "T1", "Date": "2018-02-01", "Revenue": "10"},
		Record{"Truck ID": "", "Date": "2018-01-02", "Revenue": "10"},
	)
	drivers := table(
		Record{"Drive ID": "D1", "Driver": "Ana Silva"},
		Record{"Drive ID": "D2", "Driver": ""},
	)
	vehicles := table(Record{"Truck ID": "T1", "Model": "Volvo"})
	return Sources{Cost: cost, Vehicles: vehicles, Freight: freight, Drivers: drivers}
}

func TestAttributeRevenue_Coverage(t *testing.T) {
	t.Parallel()

	src := askSources()
	ix := BuildDriveIndex(src.Cost, HeaderMapOf(src.Cost))
	overall, byYear, coverage := AttributeRevenue(src.Freight, ix)

	if coverage.Matched != 6 || coverage.Total != 10 {
		t.Fatalf("coverage want=6/10 got=%d/%d", coverage.Matched, coverage.Total)
	}
	if overall["D1"] != 400 || overall["D2"] != 500 {
		t.Fatalf("unexpected overall: %v", overall)
	}
	if _, ok := overall["D9"]; ok {
		t.Fatalf("D9 lost the max-distance pick and must not earn revenue")
	}
	if byYear["2018"]["D1"] != 400 || byYear["2019"]["D2"] != 500 {
		t.Fatalf("unexpected per year: %v", byYear)
	}
}

func TestBuildAskContext(t *testing.T) {
	t.Parallel()

	ctx := BuildAskContext(askSources())

	if ctx.RowCounts != (RowCounts{Cost: 3, Freight: 10, Vehicles: 1, Drivers: 2}) {
		t.Fatalf("unexpected row counts: %+v", ctx.RowCounts)
	}
	if ctx.KPIs.TotalRevenue != 940 {
		t.Fatalf("revenue want=940 got=%v", ctx.KPIs.TotalRevenue)
	}

	rev := ctx.RevenueByDrive
	if rev.JoinMethod != JoinMethod || rev.JoinCoverage != (Coverage{Matched: 6, Total: 10}) {
		t.Fatalf("unexpected join summary: %+v", rev)
	}
	if len(rev.TopOverall) != 2 || rev.TopOverall[0].DriveID != "D2" || rev.TopOverall[0].DriverName != Unknown {
		t.Fatalf("unexpected overall ranking: %+v", rev.TopOverall)
	}
	if rev.TopOverall[1].DriveID != "D1" || rev.TopOverall[1].DriverName != "Ana Silva" {
		t.Fatalf("unexpected second driver: %+v", rev.TopOverall[1])
	}
	if len(rev.Top2018) != 1 || rev.Top2018[0].DriveID != "D1" || rev.Top2018[0].Revenue != 400 {
		t.Fatalf("unexpected 2018 ranking: %+v", rev.Top2018)
	}

	if len(ctx.EfficiencyByDrive) != 3 || ctx.EfficiencyByDrive[0].ID != "D9" {
		t.Fatalf("unexpected drive efficiency: %+v", ctx.EfficiencyByDrive)
	}
	if ctx.EfficiencyByDrive[0].DriverName != Unknown {
		t.Fatalf("D9 has no master entry, want %s got %s", Unknown, ctx.EfficiencyByDrive[0].DriverName)
	}
	if len(ctx.EfficiencyByTruck) != 2 || len(ctx.EfficiencyByTruckType) != 0 {
		t.Fatalf("unexpected truck efficiency: %+v / %+v", ctx.EfficiencyByTruck, ctx.EfficiencyByTruckType)
	}

	if ctx.DriverFields != (DriverFields{DriveID: fieldAvailable, DriverName: fieldAvailable}) {
		t.Fatalf("unexpected driver fields: %+v", ctx.DriverFields)
	}
	if ctx.VehicleFields != (VehicleFields{TruckID: fieldAvailable, TruckType: fieldMissing}) {
		t.Fatalf("unexpected vehicle fields: %+v", ctx.VehicleFields)
	}
	if ctx.FreightFields != (FreightFields{TruckID: fieldAvailable, Revenue: fieldAvailable}) {
		t.Fatalf("unexpected freight fields: %+v", ctx.FreightFields)
	}
	if got := ctx.AvailableColumns.Vehicles; len(got) != 2 || got[0] != "Model" {
		t.Fatalf("unexpected vehicle columns: %v", got)
	}
}

func TestBuildAskContext_EmptySources(t *testing.T) {
	t.Parallel()

	ctx := BuildAskContext(Sources{})

	if ctx.KPIs != DemoDashboard().KPIs {
		t.Fatalf("empty upload should carry demo kpis got=%+v", ctx.KPIs)
	}
	if ctx.DriverFields.DriveID != fieldMissing || ctx.FreightFields.Revenue != fieldMissing {
		t.Fatalf("fields should be missing: %+v %+v", ctx.DriverFields, ctx.FreightFields)
	}
	if ctx.RevenueByDrive.JoinCoverage != (Coverage{}) {
		t.Fatalf("unexpected coverage: %+v", ctx.RevenueByDrive.JoinCoverage)
	}

	raw, err := json.Marshal(ctx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"availableColumns", "efficiencyByDrive", "revenueByDrive"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %s in %s", key, raw)
		}
	}
	cols := decoded["availableColumns"].(map[string]any)
	if cost, ok := cols["cost"].([]any); !ok || len(cost) != 0 {
		t.Fatalf("empty cost columns should encode as [] got=%v", cols["cost"])
	}
}

func TestBuildAskContext_ListsAreCapped(t *testing.T) {
	t.Parallel()

	var cost, freight []Record
	for i := 0; i < 20; i++ {
		truck := fmt.Sprintf("T%02d", i)
		cost = append(cost, Record{"Truck ID": truck, "Drive ID": fmt.Sprintf("D%02d", i), "Date": "2018-05", "KM": fmt.Sprint(100 + i), "Liters": "10"})
		freight = append(freight, Record{"Truck ID": truck, "Date": "2018-05", "Revenue": fmt.Sprint(10 * (i + 1))})
	}
	ctx := BuildAskContext(Sources{Cost: table(cost...), Freight: table(freight...)})

	if len(ctx.EfficiencyByDrive) != askListLimit || len(ctx.EfficiencyByTruck) != askListLimit {
		t.Fatalf("efficiency lists want=%d got=%d/%d", askListLimit, len(ctx.EfficiencyByDrive), len(ctx.EfficiencyByTruck))
	}
	if len(ctx.RevenueByDrive.TopOverall) != askListLimit || len(ctx.RevenueByDrive.Top2018) != askListLimit {
		t.Fatalf("revenue lists want=%d got=%d/%d", askListLimit, len(ctx.RevenueByDrive.TopOverall), len(ctx.RevenueByDrive.Top2018))
	}
	if ctx.RevenueByDrive.TopOverall[0].DriveID != "D19" {
		t.Fatalf("top driver want=D19 got=%s", ctx.RevenueByDrive.TopOverall[0].DriveID)
	}
	if ctx.EfficiencyByDrive[0].ID != "D19" {
		t.Fatalf("most efficient want=D19 got=%s", ctx.EfficiencyByDrive[0].ID)
	}
}
