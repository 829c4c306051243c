package mathx

import "golang.org/x/exp/constraints"

// CeilDiv returns ceil(a/b). b==0 yields 0 rather than a fault; callers
// validate divisors before use.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return a/b + boolTo[T](a%b != 0)
}

func boolTo[T constraints.Unsigned](v bool) T {
	if v {
		return 1
	}
	return 0
}
