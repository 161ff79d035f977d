package registry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeLookup struct {
	known map[string]bool
	err   error
	calls int
}

func (f *fakeLookup) Known(ctx context.Context, deviceID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.known[deviceID], nil
}

func TestValidatorPermissive(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		lookup   *fakeLookup
	}{
		{
			name:     "known device accepted",
			deviceID: "d1",
			lookup:   &fakeLookup{known: map[string]bool{"d1": true}},
		},
		{
			name:     "unknown device still accepted",
			deviceID: "ghost",
			lookup:   &fakeLookup{known: map[string]bool{}},
		},
		{
			name:     "lookup failure still accepted",
			deviceID: "d1",
			lookup:   &fakeLookup{err: errors.New("redis down")},
		},
		{
			name:     "empty device id still accepted",
			deviceID: "",
			lookup:   &fakeLookup{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.lookup, PolicyPermissive, zap.NewNop())
			if err := v.Validate(context.Background(), tt.deviceID); err != nil {
				t.Fatalf("permissive policy rejected record: %v", err)
			}
		})
	}
}

func TestValidatorStrict(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		lookup   *fakeLookup
		wantErr  bool
	}{
		{
			name:     "known device accepted",
			deviceID: "d1",
			lookup:   &fakeLookup{known: map[string]bool{"d1": true}},
		},
		{
			name:     "unknown device rejected",
			deviceID: "ghost",
			lookup:   &fakeLookup{known: map[string]bool{}},
			wantErr:  true,
		},
		{
			name:     "lookup failure rejected",
			deviceID: "d1",
			lookup:   &fakeLookup{err: errors.New("redis down")},
			wantErr:  true,
		},
		{
			name:     "empty device id rejected",
			deviceID: "",
			lookup:   &fakeLookup{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.lookup, PolicyStrict, zap.NewNop())
			err := v.Validate(context.Background(), tt.deviceID)
			if tt.wantErr && err == nil {
				t.Fatal("expected rejection, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected rejection: %v", err)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error is %T, want *ValidationError", err)
				}
				if verr.DeviceID != tt.deviceID {
					t.Fatalf("error device id = %q, want %q", verr.DeviceID, tt.deviceID)
				}
			}
		})
	}
}

func TestValidatorEmptyIDSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	v := NewValidator(lookup, PolicyPermissive, zap.NewNop())
	if err := v.Validate(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.calls != 0 {
		t.Fatalf("lookup called %d times for empty device id", lookup.calls)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyPermissive {
		t.Fatalf("empty policy: got %v, %v", p, err)
	}
	if p, err := ParsePolicy("strict"); err != nil || p != PolicyStrict {
		t.Fatalf("strict policy: got %v, %v", p, err)
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
