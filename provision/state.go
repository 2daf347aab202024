package provision

import "fmt"

// State of a provisioning run. A run moves forward through the states and stops at
// the first failure, so the state also tells which step failed.
type State int

const (
	Unresolved State = iota
	Located
	VersionsResolved
	PackagesInstalled
	PropertiesWritten
	Done
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Located:
		return "located"
	case VersionsResolved:
		return "versions resolved"
	case PackagesInstalled:
		return "packages installed"
	case PropertiesWritten:
		return "properties written"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
