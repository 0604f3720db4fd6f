package model

// Station represents a railway station that routes depart from or
// arrive at.  Stations are identified by a short unique code (e.g.
// NDLS for New Delhi) in addition to their unique name.  Stations are
// immutable after creation; no update path is exposed.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique station name.
//  Code – unique short station code.
//  City – city the station is located in.
type Station struct {
    ID   uint64 `json:"id"`   // stations.id
    Name string `json:"name"` // stations.name
    Code string `json:"code"` // stations.code
    City string `json:"city"` // stations.city
}
