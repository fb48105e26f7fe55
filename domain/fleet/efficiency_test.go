package fleet

import "testing"

func TestBuildEfficiency_RanksByKmPerLiterThenDistance(t *testing.T) {
	t.Parallel()

	cost := table(
		Record{"Truck ID": "A", "KM": "100", "Liters": "20"},
		Record{"Truck ID": "B", "KM": "200", "Liters": "40"},
		Record{"Truck ID": "C", "KM": "300", "Liters": "50"},
		Record{"Truck ID": "", "KM": "9999", "Liters": "1"},
		Record{"Truck ID": "D", "KM": "80", "Liters": "0"},
	)
	rows := BuildEfficiency(cost, HeaderMapOf(cost), TruckIDKeys)

	want := []string{"C", "B", "A", "D"}
	if len(rows) != len(want) {
		t.Fatalf("rows want=%d got=%d (%v)", len(want), len(rows), rows)
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Fatalf("rank %d want=%s got=%s", i, id, rows[i].ID)
		}
	}
	if rows[0].KmPerLiter != 6 {
		t.Fatalf("C km/l want=6 got=%v", rows[0].KmPerLiter)
	}
	if rows[3].KmPerLiter != 0 {
		t.Fatalf("zero liters want=0 got=%v", rows[3].KmPerLiter)
	}
}

func TestBuildEfficiency_SumsPerKey(t *testing.T) {
	t.Parallel()

	cost := table(
		Record{"Drive ID": "D1", "Truck ID": "T1", "KM": "100", "Liters": "10"},
		Record{"Drive ID": "D1", "Truck ID": "T2", "KM": "50", "Liters": "15"},
	)
	rows := BuildEfficiency(cost, HeaderMapOf(cost), DriveEfficiencyKeys)
	if len(rows) != 1 {
		t.Fatalf("rows want=1 got=%d", len(rows))
	}
	if rows[0].TotalKm != 150 || rows[0].TotalLiters != 25 || rows[0].KmPerLiter != 6 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestBuildEfficiency_DriverKeysIgnoreBareID(t *testing.T) {
	t.Parallel()

	cost := table(Record{"ID": "T1", "KM": "100", "Liters": "10"})
	if rows := BuildEfficiency(cost, HeaderMapOf(cost), DriveEfficiencyKeys); len(rows) != 0 {
		t.Fatalf("want no driver rows got=%v", rows)
	}
}
