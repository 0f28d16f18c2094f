package models

// Catalog is the lookup data an appointment refers to.
type Catalog struct {
	Clients  []Client  `json:"clients" yaml:"clients"`
	Stylists []Stylist `json:"stylists" yaml:"stylists"`
	Services []Service `json:"services" yaml:"services"`
}
