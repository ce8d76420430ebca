package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidTrim indicates a trim id that does not resolve to usable tire
// data. This covers transport failures, non-2xx responses, and responses
// missing the tire-size field: none of them will succeed on retry with the
// same id, so callers treat the whole class as a client-input error.
var ErrInvalidTrim = errors.New("trim id does not resolve to tire data")

// Dimensions is the structured tire size: width in mm, aspect ratio in
// percent, wheel diameter in inches.
type Dimensions struct {
	Width       int `json:"width"`
	AspectRatio int `json:"aspect_ratio"`
	WheelSize   int `json:"wheel_size"`
}

// Client resolves a vehicle trim id to factory tire dimensions.
type Client interface {
	ResolveTireInfo(ctx context.Context, trimID int64) (Dimensions, error)
}

var digitRuns = regexp.MustCompile(`\d+`)

// ParseSize extracts the dimension triple from a raw tire-size string such as
// "205/75R18". Maximal digit runs are read left to right as width, aspect
// ratio, and wheel size; fewer than three runs is an error. Values are not
// range-checked.
func ParseSize(s string) (Dimensions, error) {
	runs := digitRuns.FindAllString(s, -1)
	if len(runs) < 3 {
		return Dimensions{}, fmt.Errorf("tire size %q: expected three numbers", s)
	}

	var nums [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(runs[i])
		if err != nil {
			return Dimensions{}, fmt.Errorf("tire size %q: %w", s, err)
		}
		nums[i] = n
	}

	return Dimensions{Width: nums[0], AspectRatio: nums[1], WheelSize: nums[2]}, nil
}
