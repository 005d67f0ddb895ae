package sim

import "testing"

func TestResultTraces(t *testing.T) {
	r := &Result{Samples: []Sample{
		{Time: 0, MinHeight: 0.2},
		{Time: 0.1, MinHeight: 0.05},
		{Time: 0.2, MinHeight: -1e-5},
	}}

	h := r.Heights()
	ts := r.Times()
	if len(h) != 3 || len(ts) != 3 {
		t.Fatalf("expected 3 entries, got %d and %d", len(h), len(ts))
	}
	if h[1] != 0.05 || h[2] != -1e-5 {
		t.Errorf("unexpected heights %v", h)
	}
	if ts[2] != 0.2 {
		t.Errorf("unexpected times %v", ts)
	}

	empty := &Result{}
	if len(empty.Heights()) != 0 {
		t.Error("expected empty trace")
	}
}
