package catalog

// demoLoads keeps the service queryable when no loads source is mounted.
var demoLoads = []Load{
	{
		LoadID:           "L-1001",
		OriginCity:       "Chicago",
		OriginState:      "IL",
		DestinationCity:  "Dallas",
		DestinationState: "TX",
		PickupDatetime:   "2025-09-08T08:00:00-05:00",
		DeliveryDatetime: "2025-09-09T16:00:00-05:00",
		EquipmentType:    "Dry Van",
		LoadboardRate:    1450,
		Weight:           30000,
		CommodityType:    "Paper",
		NumOfPieces:      20,
		Miles:            976,
		Dimensions:       "48x102",
		Notes:            "No pallet exchange",
	},
	{
		LoadID:           "L-1002",
		OriginCity:       "Atlanta",
		OriginState:      "GA",
		DestinationCity:  "Orlando",
		DestinationState: "FL",
		PickupDatetime:   "2025-09-08T07:00:00-05:00",
		DeliveryDatetime: "2025-09-08T17:00:00-05:00",
		EquipmentType:    "Reefer",
		LoadboardRate:    900,
		Weight:           25000,
		CommodityType:    "Produce",
		NumOfPieces:      12,
		Miles:            438,
		Dimensions:       "53x102",
		Notes:            "Keep at 36F",
	},
}
