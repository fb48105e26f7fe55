package fleet

// Assignment is the driver credited with a truck for one period, and the
// distance that won the assignment.
type Assignment struct {
	DriveID string  `json:"driveId"`
	Km      float64 `json:"km"`
}

// DriveIndex maps JoinKey(truckID, period) to the assigned driver.
type DriveIndex map[string]Assignment

// JoinKey builds the composite truck/period key of a DriveIndex.
func JoinKey(truckID, period string) string { return truckID + "::" + period }

// BuildDriveIndex picks, for every truck and period in the cost table, the
// driver of the row with the largest distance. The first row wins a tie.
// Rows missing either a truck id or a driver id are skipped.
func BuildDriveIndex(cost Table, hm HeaderMap) DriveIndex {
	ix := DriveIndex{}
	for _, rec := range cost.Records {
		truckID := hm.PickText(rec, TruckIDKeys)
		driveID := hm.PickText(rec, DriveIDKeys)
		if truckID == "" || driveID == "" {
			continue
		}
		period := hm.PickPeriod(rec, CostDateKeys)
		km := hm.PickNumber(rec, KmKeys)
		key := JoinKey(truckID, period)
		if cur, ok := ix[key]; !ok || km > cur.Km {
			ix[key] = Assignment{DriveID: driveID, Km: km}
		}
	}
	return ix
}

// Lookup returns the driver assigned to a truck in a period.
func (ix DriveIndex) Lookup(truckID, period string) (Assignment, bool) {
	if truckID == "" {
		return Assignment{}, false
	}
	a, ok := ix[JoinKey(truckID, period)]
	if !ok || a.DriveID == "" {
		return Assignment{}, false
	}
	return a, true
}
