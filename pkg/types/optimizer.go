package types

import (
	"encoding/json"
	"fmt"
)

// DefaultOptimizerAccountID is the account used when the optimizer is
// enabled without an explicit account id.
const DefaultOptimizerAccountID = 215379

// OptimizerMode enumerates the three optimizer states.
type OptimizerMode int

const (
	// OptimizerDisabled emits no optimizer scripts. This is the zero value,
	// so an absent field behaves exactly like an explicit false.
	OptimizerDisabled OptimizerMode = iota

	// OptimizerDefaultAccount enables the optimizer with the default account.
	OptimizerDefaultAccount

	// OptimizerCustomAccount enables the optimizer with a caller-supplied account.
	OptimizerCustomAccount
)

// Optimizer is the resolved form of the visual_website_optimizer option.
// On the wire it accepts three shapes: false (or null/absent), true, and
// an object with an optional account_id field. An object without
// account_id resolves to the default account.
type Optimizer struct {
	Mode      OptimizerMode
	AccountID int
}

// Enabled reports whether optimizer scripts should be emitted.
func (o Optimizer) Enabled() bool {
	return o.Mode != OptimizerDisabled
}

// ResolvedAccountID returns the custom account id when one was supplied,
// otherwise the default account id.
func (o Optimizer) ResolvedAccountID() int {
	if o.Mode == OptimizerCustomAccount {
		return o.AccountID
	}
	return DefaultOptimizerAccountID
}

// optimizerObject is the object wire form.
type optimizerObject struct {
	AccountID *int `json:"account_id" yaml:"account_id"`
}

func (o *Optimizer) fromObject(obj optimizerObject) {
	if obj.AccountID != nil {
		o.Mode = OptimizerCustomAccount
		o.AccountID = *obj.AccountID
		return
	}
	o.Mode = OptimizerDefaultAccount
}

func (o *Optimizer) fromBool(enabled bool) {
	if enabled {
		o.Mode = OptimizerDefaultAccount
	} else {
		o.Mode = OptimizerDisabled
	}
}

// UnmarshalJSON implements json.Unmarshaler for the tri-state wire form.
func (o *Optimizer) UnmarshalJSON(data []byte) error {
	*o = Optimizer{}

	if string(data) == "null" {
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		o.fromBool(b)
		return nil
	}

	var obj optimizerObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("visual_website_optimizer must be a boolean or object: %w", err)
	}
	o.fromObject(obj)
	return nil
}

// MarshalJSON implements json.Marshaler. Emits the most compact wire form
// that round-trips to the same state.
func (o Optimizer) MarshalJSON() ([]byte, error) {
	switch o.Mode {
	case OptimizerCustomAccount:
		id := o.AccountID
		return json.Marshal(optimizerObject{AccountID: &id})
	case OptimizerDefaultAccount:
		return json.Marshal(true)
	default:
		return json.Marshal(false)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so the same tri-state form
// works in configuration files.
func (o *Optimizer) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*o = Optimizer{}

	var b bool
	if err := unmarshal(&b); err == nil {
		o.fromBool(b)
		return nil
	}

	var obj optimizerObject
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("visual_website_optimizer must be a boolean or object: %w", err)
	}
	o.fromObject(obj)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Optimizer) MarshalYAML() (interface{}, error) {
	switch o.Mode {
	case OptimizerCustomAccount:
		id := o.AccountID
		return optimizerObject{AccountID: &id}, nil
	case OptimizerDefaultAccount:
		return true, nil
	default:
		return false, nil
	}
}
