package practice

import "time"

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs delayed callbacks. Sessions use it for the quiz auto-advance and the matching
// "incorrect" flash so that both can be cancelled when the session ends.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer wheel
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// pending tracks at most one scheduled callback. Each schedule bumps the generation so a
// callback that already left the timer but has not taken the session lock yet becomes a no-op.
type pending struct {
	timer Timer
	gen   uint64
}

func (p *pending) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

func (p *pending) schedule(s Scheduler, d time.Duration, f func(gen uint64)) {
	p.cancel()
	gen := p.gen
	p.timer = s.AfterFunc(d, func() { f(gen) })
}

func (p *pending) current(gen uint64) bool {
	return p.gen == gen
}
