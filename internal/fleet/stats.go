package fleet

import "github.com/bezrodnovart03/BnovAuto/internal/models"

// Summarize computes summary statistics over an already-retrieved telemetry
// window. It is a pure function; time filtering is the caller's job.
//
// An empty input yields an empty result with no keys, which is distinct
// from a non-empty input whose measurements are all absent (that yields
// zeroed averages and a positive dataPointsCount).
func Summarize(records []models.Telemetry) map[string]interface{} {
	statistics := map[string]interface{}{}
	if len(records) == 0 {
		return statistics
	}

	var (
		speedSum   float64
		speedCount int
		maxSpeed   float64
		fuelSum    float64
		fuelCount  int
		errorCount int
	)
	for _, record := range records {
		if record.Speed != nil {
			if speedCount == 0 || *record.Speed > maxSpeed {
				maxSpeed = *record.Speed
			}
			speedSum += *record.Speed
			speedCount++
		}
		if record.FuelLevel != nil {
			fuelSum += *record.FuelLevel
			fuelCount++
		}
		if record.HasError() {
			errorCount++
		}
	}

	avgSpeed := 0.0
	if speedCount > 0 {
		avgSpeed = speedSum / float64(speedCount)
	}
	avgFuelLevel := 0.0
	if fuelCount > 0 {
		avgFuelLevel = fuelSum / float64(fuelCount)
	}

	statistics["avgSpeed"] = avgSpeed
	statistics["maxSpeed"] = maxSpeed
	statistics["avgFuelLevel"] = avgFuelLevel
	statistics["errorCount"] = errorCount
	statistics["dataPointsCount"] = len(records)
	return statistics
}
