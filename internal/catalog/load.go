package catalog

// Load is one shippable load. Field names are part of the external search
// contract.
type Load struct {
	LoadID           string  `json:"load_id"`
	OriginCity       string  `json:"origin_city"`
	OriginState      string  `json:"origin_state"`
	DestinationCity  string  `json:"destination_city"`
	DestinationState string  `json:"destination_state"`
	PickupDatetime   string  `json:"pickup_datetime"`
	DeliveryDatetime string  `json:"delivery_datetime"`
	EquipmentType    string  `json:"equipment_type"`
	LoadboardRate    float64 `json:"loadboard_rate"`
	Weight           float64 `json:"weight"`
	CommodityType    string  `json:"commodity_type"`
	NumOfPieces      int     `json:"num_of_pieces"`
	Miles            float64 `json:"miles"`
	Dimensions       string  `json:"dimensions"`
	Notes            string  `json:"notes"`
}

// Query holds the conjunctive search filters. Empty fields are
// unconstrained. PickupDate is a calendar date (YYYY-MM-DD) compared against
// the date portion of each load's pickup_datetime.
type Query struct {
	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
	EquipmentType    string
	PickupDate       string
}

func (q Query) Empty() bool {
	return q == Query{}
}
