package domain

// RegionCount es la cantidad de empresas activas ubicadas en una región.
type RegionCount struct {
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// RegionDensity es la franja de densidad calculada para una región.
type RegionDensity struct {
	RegionID string      `json:"region_id"`
	Name     string      `json:"name"`
	Count    int         `json:"count"`
	Band     DensityBand `json:"band"`
	Color    string      `json:"color"`
}
