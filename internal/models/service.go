package models

// Service is a bookable salon treatment.
type Service struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Price       float64 `json:"price" yaml:"price"`
	Duration    int     `json:"duration" yaml:"duration"` // minutes
	Category    string  `json:"category,omitempty" yaml:"category"`
	Description string  `json:"description,omitempty" yaml:"description"`
	IsActive    bool    `json:"isActive" yaml:"is_active"`
}

type ServiceStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	AveragePrice int `json:"averagePrice"`
}
