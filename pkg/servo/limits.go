package servo

// Clamp restricts v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MapRange maps value from [inMin, inMax] to [outMin, outMax].
// outMin may be greater than outMax, which inverts the axis.
func MapRange(value, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return (value-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// StepToward moves current toward target by at most step degrees.
// step must be positive; the result never overshoots the target.
func StepToward(current, target, step float64) float64 {
	if current < target {
		if target-current <= step {
			return target
		}
		return current + step
	}
	if current-target <= step {
		return target
	}
	return current - step
}

// Significant reports whether a move from current to target is large
// enough to be worth sending, suppressing micro-jitter below minChange.
func Significant(current, target, minChange float64) bool {
	d := target - current
	if d < 0 {
		d = -d
	}
	return d >= minChange
}
