// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockNeverRunsBackward(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(-time.Second)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Errorf("Advance(negative) moved the clock to %v", got)
	}

	clock.Set(epoch.Add(-time.Hour))
	if got := clock.Now(); !got.Equal(epoch) {
		t.Errorf("Set(earlier) moved the clock to %v", got)
	}

	later := epoch.Add(time.Minute)
	clock.Set(later)
	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("Set(later) = %v, want %v", got, later)
	}
}

func TestFakeClockConcurrentAdvance(t *testing.T) {
	clock := Fake(epoch)

	var group sync.WaitGroup
	for range 10 {
		group.Add(1)
		go func() {
			defer group.Done()
			clock.Advance(time.Millisecond)
		}()
	}
	group.Wait()

	want := epoch.Add(10 * time.Millisecond)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}
}

func TestRealClockIsMonotonic(t *testing.T) {
	clock := Real()
	first := clock.Now()
	second := clock.Now()
	if second.Before(first) {
		t.Errorf("real clock went backward: %v then %v", first, second)
	}
}
