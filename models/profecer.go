package models

// Profecer is a professor roster entry ("profecer" is the collection name the
// frontend ships with). Read-only reference data served from a cache.
type Profecer struct {
	Name   string `json:"name" bson:"name"`
	Role   string `json:"role" bson:"role"`
	Imgsrc string `json:"imgsrc,omitempty" bson:"imgsrc,omitempty"`
}
