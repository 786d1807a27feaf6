package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterFailureThreshold(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		Name:               "test",
		FailureThreshold:   3,
		SuccessThreshold:   1,
		Timeout:            time.Minute,
		MaxHalfOpenRequest: 1,
	})

	boom := errors.New("upstream down")
	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d returned %v, want the upstream error", i, err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want open after threshold failures", cb.State())
	}
	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open breaker returned %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		Name:               "test",
		FailureThreshold:   1,
		SuccessThreshold:   1,
		Timeout:            time.Millisecond,
		MaxHalfOpenRequest: 1,
	})

	if err := cb.Execute(func() error { return errors.New("fail") }); err == nil {
		t.Fatal("expected the call error")
	}
	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want open", cb.State())
	}

	time.Sleep(5 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("recovery call failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %s, want closed after a half-open success", cb.State())
	}
}

func TestBreakerNotifiesStateChanges(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		Name:               "notify",
		FailureThreshold:   1,
		SuccessThreshold:   1,
		Timeout:            time.Minute,
		MaxHalfOpenRequest: 1,
	})

	var gotName string
	var gotFrom, gotTo CircuitState
	cb.OnStateChange(func(name string, from, to CircuitState) {
		gotName, gotFrom, gotTo = name, from, to
	})

	cb.Execute(func() error { return errors.New("fail") })

	if gotName != "notify" || gotFrom != StateClosed || gotTo != StateOpen {
		t.Errorf("callback got (%s, %s, %s), want (notify, closed, open)", gotName, gotFrom, gotTo)
	}
}
