package seismicity

import "time"

// Point is a 3-D geographic location. Depth is in km, positive down.
type Point struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Depth float64 `json:"depth"`
}

// Rupture is a single modeled seismic event hypothesis: a fixed geometry
// with an annual occurrence rate, produced by seismic-source logic-tree
// processing upstream. Values are immutable once constructed.
type Rupture struct {
	Strike         float64 `json:"strike"`
	Dip            float64 `json:"dip"`
	Rake           float64 `json:"rake"`
	Mag            float64 `json:"mag"`
	Hypocenter     Point   `json:"hypocenter"`
	OccurrenceRate float64 `json:"occurrence_rate"` // events per year
	Source         string  `json:"source"`          // provenance identifier
}

// Earthquake is one observed event from a seismic catalog.
type Earthquake struct {
	Mag      float64   `json:"mag"`
	Location Point     `json:"location"`
	Time     time.Time `json:"time"`
	EventID  string    `json:"event_id,omitempty"`
}
