package folio

import (
	"testing"
	"time"
)

func TestLoginLimiterAllowsUnderLimit(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)
	ip := "192.0.2.1"
	for i := 0; i < 3; i++ {
		if !l.Check(ip) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Record(ip)
	}
	if l.Check(ip) {
		t.Error("attempt over the limit should be blocked")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)
	ip := "192.0.2.2"
	for i := 0; i < 5; i++ {
		if !l.Check(ip) {
			t.Fatal("Check alone must not consume the budget")
		}
	}
	l.Record(ip)
	if l.Check(ip) {
		t.Error("recorded failure should count against the limit")
	}
}

func TestLoginLimiterIsolatesIPs(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)
	l.Record("192.0.2.3")
	if l.Check("192.0.2.3") {
		t.Error("blocked IP should stay blocked")
	}
	if !l.Check("192.0.2.4") {
		t.Error("other IPs are unaffected")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter(1, 10*time.Millisecond)
	ip := "192.0.2.5"
	l.Record(ip)
	if l.Check(ip) {
		t.Fatal("should be blocked inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Check(ip) {
		t.Error("old attempts should age out of the window")
	}
}
