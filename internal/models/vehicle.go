package models

import "fmt"

// Vehicle is a rental car as returned by the listing endpoint. The record is
// read-only for this client; availability is decided server-side.
type Vehicle struct {
	ID          int64   `json:"id_vehicle"`
	Name        string  `json:"vehicle_name"`
	Brand       string  `json:"brand"`
	RentalPrice int64   `json:"rental_price"`
	Rate        float64 `json:"rate"`
	RateCount   int     `json:"rate_count"`
	ImagePath   string  `json:"image_path"`
	Status      string  `json:"vehicle_status"`
	Distance    *int64  `json:"distance"`
}

func (v Vehicle) FullName() string {
	return fmt.Sprintf("%s %s", v.Brand, v.Name)
}

func (v Vehicle) Available() bool {
	return v.Status == VehicleAvailable
}

// DistanceLabel formats the distance in meters below one kilometer and in
// kilometers with one decimal otherwise. Empty when the API sent no distance.
func (v Vehicle) DistanceLabel() string {
	if v.Distance == nil {
		return ""
	}
	if *v.Distance < 1000 {
		return fmt.Sprintf("%d m", *v.Distance)
	}
	return fmt.Sprintf("%.1f km", float64(*v.Distance)/1000)
}
