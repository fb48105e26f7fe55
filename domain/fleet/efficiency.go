package fleet

import "sort"

// EfficiencyRow is the distance and fuel volume booked against one key.
type EfficiencyRow struct {
	ID          string  `json:"id"`
	TotalKm     float64 `json:"totalKm"`
	TotalLiters float64 `json:"totalLiters"`
	KmPerLiter  float64 `json:"kmPerLiter"`
}

// BuildEfficiency groups the cost table by the field behind keySpellings
// (driver id, truck id or truck type) and ranks the buckets by km per liter,
// highest first. Equal efficiency ranks the larger distance first.
// Rows without a key are ignored.
func BuildEfficiency(cost Table, hm HeaderMap, keySpellings []string) []EfficiencyRow {
	buckets := newLedger[EfficiencyRow]()
	for _, rec := range cost.Records {
		id := hm.PickText(rec, keySpellings)
		if id == "" {
			continue
		}
		row := buckets.at(id, func() EfficiencyRow { return EfficiencyRow{ID: id} })
		row.TotalKm += hm.PickNumber(rec, KmKeys)
		row.TotalLiters += hm.PickNumber(rec, LiterKeys)
	}

	rows := buckets.values()
	for i := range rows {
		rows[i].KmPerLiter = ratio(rows[i].TotalKm, rows[i].TotalLiters)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].KmPerLiter != rows[j].KmPerLiter {
			return rows[i].KmPerLiter > rows[j].KmPerLiter
		}
		return rows[i].TotalKm > rows[j].TotalKm
	})
	return rows
}
