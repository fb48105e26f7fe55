package store

import (
	"sync"
	"testing"

	"fleetlens/domain/fleet"
)

func TestNewMemoryStore_ShowsDemo(t *testing.T) {
	s := NewMemoryStore()
	snap := s.Current()
	if snap == nil || snap.ID == "" {
		t.Fatalf("expected an initial snapshot, got %+v", snap)
	}
	if snap.Dashboard.KPIs != fleet.DemoDashboard().KPIs {
		t.Errorf("initial dashboard should be the demo, got %+v", snap.Dashboard.KPIs)
	}
}

func TestReplace(t *testing.T) {
	s := NewMemoryStore()
	before := s.Current()

	src := fleet.Sources{
		Freight: fleet.Table{Records: []fleet.Record{{"Truck ID": "T1", "Date": "2018-01", "Revenue": "42"}}},
	}
	after := s.Replace(src)

	if after.ID == before.ID {
		t.Fatalf("snapshot id should change")
	}
	if s.Current() != after {
		t.Fatalf("Current should return the replaced snapshot")
	}
	if after.Dashboard.KPIs.TotalRevenue != 42 || after.AskContext.RowCounts.Freight != 1 {
		t.Errorf("unexpected snapshot: %+v", after.Dashboard.KPIs)
	}
	if before.Dashboard.KPIs.TotalRevenue == 42 {
		t.Errorf("previous snapshot must not change")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	src := fleet.Sources{
		Cost: fleet.Table{Records: []fleet.Record{{"Truck ID": "T1", "KM": "10", "Liters": "2"}}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(src)
		}()
		go func() {
			defer wg.Done()
			if s.Current() == nil {
				t.Error("nil snapshot")
			}
		}()
	}
	wg.Wait()

	if got := s.Current().Dashboard.KPIs.AvgFuelEfficiency; got != 5 {
		t.Errorf("efficiency want=5 got=%v", got)
	}
}
