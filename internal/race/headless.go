package race

import (
	"fmt"
	"time"
)

// maxSteps bounds a headless run. A race with positive speeds ends long
// before this.
const maxSteps = 1_000_000

// Run drives c through one race on a virtual clock beginning at start,
// following every Step without waiting. It returns the virtual time at
// which the controller stopped scheduling.
func Run(c *Controller, start time.Time) (time.Time, error) {
	now := start
	step := c.Start(now)
	for i := 0; step.Wait; i++ {
		if i >= maxSteps {
			return now, fmt.Errorf("race did not finish after %d steps", maxSteps)
		}
		now = now.Add(step.Delay)
		step = c.Advance(now, step.Gen)
	}
	return now, nil
}
