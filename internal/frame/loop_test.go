package frame

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

type step struct {
	acquire    Status
	acquireErr error
	present    Status
	presentErr error
}

type fakeBackend struct {
	steps []step
	calls []string
	tick  int
}

func (b *fakeBackend) current() step {
	if b.tick < len(b.steps) {
		return b.steps[b.tick]
	}
	return step{}
}

func (b *fakeBackend) log(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBackend) WaitForFrame(slot int) error {
	b.log("wait %d", slot)
	return nil
}

func (b *fakeBackend) AcquireImage(slot int) (int, Status, error) {
	s := b.current()
	b.log("acquire %d", slot)
	if s.acquire == StatusOutOfDate || s.acquireErr != nil {
		b.tick++
	}
	return 1, s.acquire, s.acquireErr
}

func (b *fakeBackend) ResetFrame(slot int) error {
	b.log("reset %d", slot)
	return nil
}

func (b *fakeBackend) Record(slot, imageIndex int) error {
	b.log("record %d %d", slot, imageIndex)
	return nil
}

func (b *fakeBackend) Submit(slot int) error {
	b.log("submit %d", slot)
	return nil
}

func (b *fakeBackend) Present(slot, imageIndex int) (Status, error) {
	s := b.current()
	b.tick++
	b.log("present %d %d", slot, imageIndex)
	return s.present, s.presentErr
}

func (b *fakeBackend) WaitIdle() error {
	b.log("idle")
	return nil
}

type fakeSwapchain struct {
	minimized bool
	pending   bool
	recreates int
	skipped   int
	err       error
}

func (s *fakeSwapchain) Recreate() (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.minimized {
		s.skipped++
		return false, nil
	}
	s.recreates++
	s.pending = false
	return true, nil
}

func (s *fakeSwapchain) Pending() bool   { return s.pending }
func (s *fakeSwapchain) Minimized() bool { return s.minimized }

func TestTickSequence(t *testing.T) {
	backend := &fakeBackend{}
	loop := NewLoop(backend, &fakeSwapchain{}, 2)

	outcome, err := loop.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Presented {
		t.Fatalf("outcome = %v", outcome)
	}

	want := "wait 0,acquire 0,reset 0,record 0 1,submit 0,present 0 1"
	if got := strings.Join(backend.calls, ","); got != want {
		t.Errorf("calls = %s\nwant    %s", got, want)
	}
	if loop.Slots().Current() != 1 {
		t.Errorf("slot = %d, want 1", loop.Slots().Current())
	}
}

func TestAcquireOutOfDateSkipsFrame(t *testing.T) {
	backend := &fakeBackend{steps: []step{{acquire: StatusOutOfDate, acquireErr: errors.New("out of date")}}}
	swapchain := &fakeSwapchain{}
	loop := NewLoop(backend, swapchain, 2)

	outcome, err := loop.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Skipped {
		t.Errorf("outcome = %v, want skipped", outcome)
	}
	if swapchain.recreates != 1 {
		t.Errorf("recreates = %d, want 1", swapchain.recreates)
	}
	if got := strings.Join(backend.calls, ","); got != "wait 0,acquire 0" {
		t.Errorf("calls = %s; fence must not be reset and nothing drawn", got)
	}
	if loop.Slots().Current() != 0 || loop.Slots().Frame() != 0 {
		t.Errorf("slot advanced after skipped frame")
	}
}

func TestAcquireSuboptimalContinues(t *testing.T) {
	backend := &fakeBackend{steps: []step{{acquire: StatusSuboptimal}}}
	swapchain := &fakeSwapchain{}
	loop := NewLoop(backend, swapchain, 2)

	outcome, err := loop.Tick()
	if err != nil || outcome != Presented {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}
	if swapchain.recreates != 0 {
		t.Errorf("suboptimal acquire recreated the swapchain")
	}
}

func TestPresentTriggersRecreate(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		err     error
		pending bool
	}{
		{"out of date", StatusOutOfDate, errors.New("out of date"), false},
		{"suboptimal", StatusSuboptimal, nil, false},
		{"resize flagged", StatusSuccess, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{steps: []step{{present: tt.status, presentErr: tt.err}}}
			swapchain := &fakeSwapchain{}
			var b Backend = backend
			if tt.pending {
				b = &pendingOnPresent{fakeBackend: backend, swapchain: swapchain}
			}
			loop := NewLoop(b, swapchain, 2)

			outcome, err := loop.Tick()
			if err != nil {
				t.Fatal(err)
			}
			if outcome != Presented {
				t.Errorf("outcome = %v", outcome)
			}
			if swapchain.recreates != 1 {
				t.Errorf("recreates = %d, want 1", swapchain.recreates)
			}
			if loop.Slots().Current() != 1 {
				t.Errorf("slot = %d, want 1", loop.Slots().Current())
			}
		})
	}
}

// pendingOnPresent flags a resize while the frame is in flight.
type pendingOnPresent struct {
	*fakeBackend
	swapchain *fakeSwapchain
}

func (p *pendingOnPresent) Present(slot, imageIndex int) (Status, error) {
	p.swapchain.pending = true
	return p.fakeBackend.Present(slot, imageIndex)
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		step step
	}{
		{"acquire", step{acquireErr: errors.New("device lost")}},
		{"present", step{presentErr: errors.New("device lost")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{steps: []step{tt.step}}
			swapchain := &fakeSwapchain{}
			loop := NewLoop(backend, swapchain, 2)

			_, err := loop.Tick()
			if err == nil {
				t.Fatal("expected error")
			}
			if k := failure.KindOf(err); k != failure.KindFrame {
				t.Errorf("kind = %v, want frame", k)
			}
			if swapchain.recreates != 0 {
				t.Errorf("fatal error recreated swapchain")
			}
		})
	}
}

func TestPresentErrorWithResizePending(t *testing.T) {
	backend := &fakeBackend{steps: []step{{presentErr: errors.New("device lost")}}}
	swapchain := &fakeSwapchain{}
	loop := NewLoop(&pendingOnPresent{fakeBackend: backend, swapchain: swapchain}, swapchain, 2)

	_, err := loop.Tick()
	if k := failure.KindOf(err); k != failure.KindFrame {
		t.Fatalf("err = %v, want frame failure", err)
	}
	if swapchain.recreates != 0 {
		t.Errorf("recreates = %d, want 0", swapchain.recreates)
	}
	if loop.Slots().Frame() != 0 {
		t.Errorf("slot advanced after a failed present")
	}
}

func TestRecreateErrorPropagates(t *testing.T) {
	backend := &fakeBackend{steps: []step{{present: StatusOutOfDate}}}
	cause := failure.New(failure.KindSurface, "recreate swapchain", "no formats")
	loop := NewLoop(backend, &fakeSwapchain{err: cause}, 2)

	_, err := loop.Tick()
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want %v", err, cause)
	}
}

func TestSlotCycleAcrossRecreates(t *testing.T) {
	backend := &fakeBackend{steps: []step{
		{},
		{present: StatusSuboptimal},
		{acquire: StatusOutOfDate},
		{},
		{present: StatusOutOfDate},
		{acquire: StatusOutOfDate},
		{acquire: StatusOutOfDate},
		{},
		{},
	}}
	loop := NewLoop(backend, &fakeSwapchain{}, 2)

	var slots []int
	for range backend.steps {
		slot := loop.Slots().Current()
		outcome, err := loop.Tick()
		if err != nil {
			t.Fatal(err)
		}
		if outcome == Presented {
			slots = append(slots, slot)
		}
	}

	for i, slot := range slots {
		if slot != i%2 {
			t.Fatalf("presented slots = %v, want strict alternation", slots)
		}
	}
	if uint64(len(slots)) != loop.Slots().Frame() {
		t.Errorf("frame counter %d, presented %d", loop.Slots().Frame(), len(slots))
	}
}

func TestMinimizedDefersResize(t *testing.T) {
	backend := &fakeBackend{}
	swapchain := &fakeSwapchain{minimized: true, pending: true}
	loop := NewLoop(backend, swapchain, 2)

	for i := 0; i < 3; i++ {
		outcome, err := loop.Tick()
		if err != nil {
			t.Fatal(err)
		}
		if outcome != Skipped {
			t.Fatalf("tick %d drew while minimized", i)
		}
	}
	if len(backend.calls) != 0 {
		t.Fatalf("GPU touched while minimized: %v", backend.calls)
	}
	if swapchain.recreates != 0 || !swapchain.pending {
		t.Fatalf("recreates=%d pending=%v while minimized", swapchain.recreates, swapchain.pending)
	}

	swapchain.minimized = false
	outcome, err := loop.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if swapchain.recreates != 1 {
		t.Errorf("recreates = %d after restore, want 1", swapchain.recreates)
	}
	if outcome != Presented {
		t.Errorf("outcome = %v after restore", outcome)
	}
	if backend.calls[0] != "wait 0" {
		t.Errorf("rebuild did not happen before the frame: %v", backend.calls)
	}
}

func TestSlotsWrap(t *testing.T) {
	s := NewSlots(2)
	want := []int{1, 0, 1, 0, 1}
	for i, w := range want {
		if got := s.Advance(); got != w {
			t.Fatalf("advance %d = %d, want %d", i, got, w)
		}
	}
	if s.Frame() != 5 {
		t.Errorf("frame = %d", s.Frame())
	}
	if NewSlots(0).Depth() != 1 {
		t.Error("depth not clamped")
	}
}
