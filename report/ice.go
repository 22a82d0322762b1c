package report

import "fmt"

// ContractViolation is raised when the resolver itself misbehaves: a once-cell
// written twice, read before it was written, reset while unwritten, etc.  These
// are internal compiler errors, not errors in the user's program.
type ContractViolation struct {
	Message string
}

func (cv *ContractViolation) Error() string {
	return "internal compiler error: " + cv.Message
}

// ICE raises a contract violation.  It never returns: the panic is caught by
// CatchContract at the top of the compilation.
func ICE(msg string, args ...interface{}) {
	panic(&ContractViolation{Message: fmt.Sprintf(msg, args...)})
}

// CatchContract recovers a contract violation raised during resolution and
// stores it in the given error.  Any other panic is propagated.
// NB: This function must ALWAYS be deferred.
func CatchContract(err *error) {
	if x := recover(); x != nil {
		if cv, ok := x.(*ContractViolation); ok {
			*err = cv
			return
		}

		panic(x)
	}
}
