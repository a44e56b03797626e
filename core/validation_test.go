package core

import (
	"errors"
	"testing"
)

func TestValidateWork(t *testing.T) {
	tests := []struct {
		name    string
		work    *Work
		wantErr error
	}{
		{
			name:    "valid work",
			work:    &Work{ID: 603, Title: "The Matrix"},
			wantErr: nil,
		},
		{
			name:    "valid work without title",
			work:    &Work{ID: 11},
			wantErr: nil,
		},
		{
			name:    "nil work",
			work:    nil,
			wantErr: ErrInvalidWork,
		},
		{
			name:    "zero id",
			work:    &Work{Title: "Untitled"},
			wantErr: ErrInvalidID,
		},
		{
			name:    "negative id",
			work:    &Work{ID: -4},
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWork(tt.work)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateWork() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateWork() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateContributor(t *testing.T) {
	tests := []struct {
		name        string
		contributor *Contributor
		wantErr     error
	}{
		{
			name:        "valid unindexed contributor",
			contributor: &Contributor{ID: 6384, Name: "Keanu Reeves"},
		},
		{
			name:        "valid indexed contributor",
			contributor: &Contributor{ID: 6384, Name: "Keanu Reeves", Index: 12},
		},
		{
			name:        "nil contributor",
			contributor: nil,
			wantErr:     ErrInvalidContributor,
		},
		{
			name:        "zero id",
			contributor: &Contributor{Name: "Nobody"},
			wantErr:     ErrInvalidID,
		},
		{
			name:        "negative index",
			contributor: &Contributor{ID: 1, Index: -1},
			wantErr:     ErrInvalidContributor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContributor(tt.contributor)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateContributor() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateContributor() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr bool
	}{
		{name: "valid edge", edge: Edge{Source: 1, Target: 2, Contributor: 3}},
		{name: "self loop is valid", edge: Edge{Source: 1, Target: 1, Contributor: 3}},
		{name: "missing source", edge: Edge{Target: 2, Contributor: 3}, wantErr: true},
		{name: "missing target", edge: Edge{Source: 1, Contributor: 3}, wantErr: true},
		{name: "missing contributor", edge: Edge{Source: 1, Target: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdge(tt.edge)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEdge) {
					t.Errorf("ValidateEdge() error = %v, want ErrInvalidEdge", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateEdge() unexpected error = %v", err)
			}
		})
	}
}
