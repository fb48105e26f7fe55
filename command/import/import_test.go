package cmdimport

import (
	"os"
	"path/filepath"
	"testing"

	"fleetlens/connectors/sheet"
)

func TestRun_WritesRawTables(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yml"))
	in := t.TempDir()
	out := t.TempDir()

	cost := filepath.Join(in, "cost.csv")
	freight := filepath.Join(in, "freight.csv")
	if err := os.WriteFile(cost, []byte("Truck ID,Drive ID,Date,KM\nT1,D1,2018-01,100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(freight, []byte("Truck ID,Date,Revenue\nT1,2018-01,5\nT1,2018-01,6\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Run([]string{"-cost", cost, "-freight", freight, "-data", out}); err != nil {
		t.Fatalf("run: %v", err)
	}

	src, err := sheet.LoadRaw(filepath.Join(out, RawDir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Cost.Len() != 1 || src.Freight.Len() != 2 || src.Vehicles.Len() != 0 {
		t.Fatalf("unexpected sources: cost=%d freight=%d vehicles=%d", src.Cost.Len(), src.Freight.Len(), src.Vehicles.Len())
	}
}

func TestRun_RequiresCostOrFreight(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yml"))
	if err := Run([]string{"-data", t.TempDir()}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRun_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yml"))
	if err := Run([]string{"-cost", filepath.Join(t.TempDir(), "nope.xlsx"), "-data", t.TempDir()}); err == nil {
		t.Fatalf("expected read error")
	}
}
