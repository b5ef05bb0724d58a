package core

// State identifies the dialogue engine's position within a conversation.
// The set is closed: the engine dispatches through a handler table keyed by
// State and refuses to construct sessions outside this enum.
type State string

const (
	// StateIdle is the initial state and the state every completed or
	// abandoned flow returns to. Menu options are only valid here.
	StateIdle State = "IDLE"

	// StateInfo follows the company-information option.
	StateInfo State = "INFO"

	// StateRechargeNumber waits for the 10-digit number to top up.
	StateRechargeNumber State = "RECHARGE_NUMBER"

	// StateRechargeAmount waits for one of the allowed top-up amounts.
	StateRechargeAmount State = "RECHARGE_AMOUNT"

	// StateApptName through StateApptTimeConfirm are the four sequential
	// appointment steps accumulating name, date and time.
	StateApptName        State = "APPT_NAME"
	StateApptDateInput   State = "APPT_DATE_INPUT"
	StateApptDateConfirm State = "APPT_DATE_CONFIRM"
	StateApptTimeInput   State = "APPT_TIME_INPUT"
	StateApptTimeConfirm State = "APPT_TIME_CONFIRM"

	// StatePortabilityIntake collects the provider-switch payload.
	StatePortabilityIntake State = "PORTABILITY_INTAKE"

	// StateHandoff is sticky: once a human agent was requested the bot only
	// acknowledges until the conversation is reset.
	StateHandoff State = "HANDOFF"
)

// Valid reports whether s is a member of the closed state enum.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateInfo, StateRechargeNumber, StateRechargeAmount,
		StateApptName, StateApptDateInput, StateApptDateConfirm,
		StateApptTimeInput, StateApptTimeConfirm,
		StatePortabilityIntake, StateHandoff:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }
