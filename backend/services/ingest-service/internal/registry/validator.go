package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Policy controls how unknown or unverifiable devices are treated.
type Policy string

const (
	// PolicyPermissive never rejects a record on device grounds. This
	// mirrors the historical pipeline behavior, where a missing or failed
	// registry lookup still let the record through. Kept as the default
	// until the fleet data is clean enough to turn on strict mode.
	PolicyPermissive Policy = "permissive"

	// PolicyStrict rejects records whose device id is empty, unknown, or
	// cannot be looked up.
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a config string onto a Policy, defaulting to permissive.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStrict:
		return PolicyStrict, nil
	case PolicyPermissive, "":
		return PolicyPermissive, nil
	}
	return "", fmt.Errorf("registry: unknown validation policy %q", s)
}

// ValidationError marks a record rejected on device-identity grounds.
type ValidationError struct {
	DeviceID string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("device validation failed for %q: %s", e.DeviceID, e.Reason)
}

// Lookup is the registry read the validator depends on.
type Lookup interface {
	Known(ctx context.Context, deviceID string) (bool, error)
}

// Validator applies the configured policy to a record's device identifier.
type Validator struct {
	registry Lookup
	policy   Policy
	logger   *zap.Logger
}

// NewValidator returns a policy-applying device validator.
func NewValidator(registry Lookup, policy Policy, logger *zap.Logger) *Validator {
	if policy == "" {
		policy = PolicyPermissive
	}
	return &Validator{registry: registry, policy: policy, logger: logger}
}

// Validate checks the device identifier against the registry under the
// configured policy. Under the permissive policy the lookup result is
// logged but never rejects the record.
func (v *Validator) Validate(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		if v.policy == PolicyStrict {
			return &ValidationError{DeviceID: deviceID, Reason: "empty device id"}
		}
		v.logger.Warn("record has no device id, accepting under permissive policy")
		return nil
	}

	known, err := v.registry.Known(ctx, deviceID)
	switch {
	case err != nil:
		if v.policy == PolicyStrict {
			return &ValidationError{DeviceID: deviceID, Reason: err.Error()}
		}
		v.logger.Warn("device lookup failed, accepting under permissive policy",
			zap.String("device_id", deviceID), zap.Error(err))
	case !known:
		if v.policy == PolicyStrict {
			return &ValidationError{DeviceID: deviceID, Reason: "device not registered"}
		}
		v.logger.Warn("unknown device, accepting under permissive policy",
			zap.String("device_id", deviceID))
	}
	return nil
}
