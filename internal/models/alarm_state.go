package models

import (
	"encoding/json"
	"time"
)

// AlarmPhase is the alarm lifecycle state.
type AlarmPhase int

const (
	AlarmArmed AlarmPhase = iota
	AlarmTriggered
	AlarmDismissed
)

func (p AlarmPhase) String() string {
	switch p {
	case AlarmTriggered:
		return "TRIGGERED"
	case AlarmDismissed:
		return "DISMISSED"
	default:
		return "ARMED"
	}
}

func (p AlarmPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *AlarmPhase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = ParseAlarmPhase(s)
	return nil
}

// ParseAlarmPhase maps the String form back; unknown values are Armed.
func ParseAlarmPhase(s string) AlarmPhase {
	switch s {
	case "TRIGGERED":
		return AlarmTriggered
	case "DISMISSED":
		return AlarmDismissed
	default:
		return AlarmArmed
	}
}

// AlarmState is a read-only view of the alarm controller.
type AlarmState struct {
	Phase     AlarmPhase `json:"phase"`
	AlarmTime TimeOfDay  `json:"alarm_time"`
	// DismissAt is set only while triggered.
	DismissAt     *time.Time `json:"dismiss_at,omitempty"`
	LastTriggered time.Time  `json:"last_triggered,omitempty"`
}

func (s AlarmState) Triggered() bool { return s.Phase == AlarmTriggered }
