package core

import (
	"testing"
)

func TestIDString(t *testing.T) {
	if got := ID(603).String(); got != "603" {
		t.Errorf("ID.String() = %q, want %q", got, "603")
	}
}

func TestEdgeKey(t *testing.T) {
	a := Edge{Source: 1, Target: 2, Contributor: 10}
	b := Edge{Source: 1, Target: 2, Contributor: 20}
	c := Edge{Source: 2, Target: 1, Contributor: 10}

	if a.Key() != b.Key() {
		t.Errorf("edges with the same endpoints should share a key: %v vs %v", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("edge keys are ordered pairs; %v should differ from %v", a.Key(), c.Key())
	}
}

func TestEdgeIsSelfLoop(t *testing.T) {
	if !(Edge{Source: 5, Target: 5, Contributor: 1}).IsSelfLoop() {
		t.Error("expected self loop")
	}
	if (Edge{Source: 5, Target: 6, Contributor: 1}).IsSelfLoop() {
		t.Error("did not expect self loop")
	}
}
