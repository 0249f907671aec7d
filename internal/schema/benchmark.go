package schema

type Benchmark struct {
	ID                                       string  `json:"id"`
	Name                                     string  `json:"name" validate:"notblank"`
	GeographicLocation                       string  `json:"geographicLocation" validate:"notblank"`
	TotalProjectCostP90                      float64 `json:"totalProjectCostP90" validate:"gte=0"`
	TotalConstructionCostPerLaneKm           float64 `json:"totalConstructionCostPerLaneKm" validate:"gte=0"`
	CubicMetreRateForEarthworksPerM3         float64 `json:"cubicMetreRateForEarthworksPerM3" validate:"gte=0"`
	SquareMetreRateForPavementPerBridgePerM2 float64 `json:"squareMetreRateForPavementPerBridgePerM2" validate:"gte=0"`
}
