package script

// ActionKind tags the variants of a dSTAS action push.
type ActionKind int

const (
	ActionCustom ActionKind = iota
	ActionFreeze
	ActionSwap
)

const (
	actionFreezeTag = 0x00
	actionSwapTag   = 0x01
)

// ActionData is the tagged sum the dSTAS action push decodes to: a
// recognized Freeze/Swap directive, or the raw bytes under ActionCustom
// when the leading tag byte isn't one this package knows.
type ActionData struct {
	Kind ActionKind
	Raw  []byte
}

// ParseActionData classifies a dSTAS action push by its leading tag
// byte. An empty push or an unrecognized tag both come back Custom,
// carrying whatever bytes were actually pushed.
func ParseActionData(data []byte) ActionData {
	if len(data) == 0 {
		return ActionData{Kind: ActionCustom, Raw: data}
	}
	switch data[0] {
	case actionFreezeTag:
		return ActionData{Kind: ActionFreeze, Raw: data[1:]}
	case actionSwapTag:
		return ActionData{Kind: ActionSwap, Raw: data[1:]}
	default:
		return ActionData{Kind: ActionCustom, Raw: data}
	}
}

// Encode serializes the action back to its push-data payload.
func (a ActionData) Encode() []byte {
	switch a.Kind {
	case ActionFreeze:
		return append([]byte{actionFreezeTag}, a.Raw...)
	case ActionSwap:
		return append([]byte{actionSwapTag}, a.Raw...)
	default:
		return a.Raw
	}
}
