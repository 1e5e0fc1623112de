package crud

// GateAction is the decision a key press makes on an open gate.
type GateAction int

const (
	GateNone GateAction = iota
	GateConfirm
	GateCancel
)

// Gate is the yes/no decision point in front of a destructive action.
type Gate[T Record] struct {
	target     T
	dependents int
	prompt     Prompt
}

// NewGate selects the wording for target from its dependents count.
func NewGate[T Record](target T, dependents int, confirm func(T, int) Prompt) *Gate[T] {
	g := &Gate[T]{target: target, dependents: dependents}
	if confirm != nil {
		g.prompt = confirm(target, dependents)
	} else {
		g.prompt = Prompt{Title: "Confirmar", Message: "¿Continuar?", ConfirmLabel: "Eliminar", Hard: dependents == 0}
	}
	return g
}

// Target returns the record the gate guards.
func (g *Gate[T]) Target() T { return g.target }

// Dependents returns how many records reference the target.
func (g *Gate[T]) Dependents() int { return g.dependents }

// Prompt returns the selected wording.
func (g *Gate[T]) Prompt() Prompt { return g.prompt }

// Key maps y/enter to confirm and n/esc to cancel.
func (g *Gate[T]) Key(key string) GateAction {
	switch key {
	case "y", "Y", "s", "S", "enter":
		return GateConfirm
	case "n", "N", "esc":
		return GateCancel
	}
	return GateNone
}
