package appointment

// LedgerEffect is what a status transition does to the linked sale.
type LedgerEffect int

const (
	LedgerNone LedgerEffect = iota
	// LedgerConsume decrements remainingSessions and records a Session.
	LedgerConsume
	// LedgerRestore gives the session back and removes the Session row.
	LedgerRestore
)

func (e LedgerEffect) String() string {
	switch e {
	case LedgerConsume:
		return "consume"
	case LedgerRestore:
		return "restore"
	}
	return "none"
}

func ClassifyTransition(from, to Status) LedgerEffect {
	if from == to {
		return LedgerNone
	}
	if from == StatusCompleted {
		return LedgerRestore
	}
	if to == StatusCompleted {
		return LedgerConsume
	}
	return LedgerNone
}
