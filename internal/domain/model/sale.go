package model

import "time"

// Sale is one Vendas row.
type Sale struct {
	SoldAt     time.Time `json:"date"`
	Unit       string    `json:"unit"`
	Cluster    string    `json:"cluster"`
	Consultant string    `json:"consultant"`
	Product    string    `json:"product"`
	Value      float64   `json:"value"`
	Quantity   float64   `json:"quantity"`
	Row        int       `json:"row"`
}

// Field implements filter.Subject.
func (s Sale) Field(name string) (string, bool) {
	var v string
	switch name {
	case FieldUnit:
		v = s.Unit
	case FieldCluster:
		v = s.Cluster
	case FieldConsultant:
		v = s.Consultant
	case FieldProduct:
		v = s.Product
	default:
		return "", false
	}
	return v, v != ""
}

// Date implements filter.Subject.
func (s Sale) Date() (time.Time, bool) { return s.SoldAt, !s.SoldAt.IsZero() }
