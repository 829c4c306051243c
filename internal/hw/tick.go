package hw

// Add returns t+d modulo 2^32.
func (t Tick) Add(d Tick) Tick { return t + d }

// Before reports whether t is strictly earlier than u, treating the counter
// as a wrapping sequence where the two are less than half a range apart.
func (t Tick) Before(u Tick) bool { return int32(t-u) < 0 }

// NextWake computes the absolute deadline prev+period and whether a task
// calling at now must block to reach it. A deadline already passed (the
// task overran) means no sleep; the deadline still advances by period so
// the cadence does not drift. Counter wrap between prev and now is handled
// the way the kernel's delay-until primitive does.
func (prev Tick) NextWake(period, now Tick) (wake Tick, sleep bool) {
	wake = prev + period
	if now < prev {
		// The tick counter wrapped since prev was taken.
		sleep = wake < prev && wake > now
	} else {
		sleep = wake < prev || wake > now
	}
	return wake, sleep
}
