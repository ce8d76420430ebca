package property

import "github.com/treadbook/treadbook/internal/catalog"

// Tire is a canonical dimension triple. At most one row should exist per
// distinct triple; the registration workflow enforces this by looking up
// before inserting rather than through a database constraint.
type Tire struct {
	Idx         int64 `json:"idx"`
	Width       int   `json:"width"`
	AspectRatio int   `json:"aspect_ratio"`
	WheelSize   int   `json:"wheel_size"`
}

// Dims returns the tire's dimension triple.
func (t Tire) Dims() catalog.Dimensions {
	return catalog.Dimensions{Width: t.Width, AspectRatio: t.AspectRatio, WheelSize: t.WheelSize}
}

// Property links one user to one tire. The workflow keeps at most one row
// per (user, tire) pair, again by find-before-create.
type Property struct {
	Idx     int64 `json:"idx"`
	UserIdx int64 `json:"user_idx"`
	TireIdx int64 `json:"tire_idx"`
}

// Record is the read model for listings: the ownership row joined with its
// tire.
type Record struct {
	Idx  int64 `json:"idx"`
	Tire Tire  `json:"tire"`
}

// Page is one page of a user's registered tires.
type Page struct {
	Count int64    `json:"count"`
	Data  []Record `json:"data"`
}
