package cpu

import (
	"context"
	"time"
)

// Stepper is the engine surface a driver needs.
type Stepper interface {
	Step(keys Keys) Display
	Speed() time.Duration
}

// Drive calls vm.Step once per vm.Speed() until cycles steps have run or ctx
// is done. A cycles value of 0 runs until ctx is done. keys is polled before
// every step and may be nil; frame receives every snapshot and may be nil.
func Drive(ctx context.Context, vm Stepper, cycles uint64, keys func() Keys, frame func(Display)) error {
	ticker := time.NewTicker(vm.Speed())
	defer ticker.Stop()

	for n := uint64(0); cycles == 0 || n < cycles; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var k Keys
		if keys != nil {
			k = keys()
		}
		d := vm.Step(k)
		if frame != nil {
			frame(d)
		}
	}
	return nil
}
