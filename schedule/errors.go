package schedule

import (
	"fmt"
	"strings"

	"github.com/harmonize-build/harmonize/typesig"
)

// InvalidScheduleError is returned when a schedule label outside the fixed
// accepted set (Start, Update) is loaded.
type InvalidScheduleError struct {
	Label Label
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("schedule: invalid schedule label %q", string(e.Label))
}

// EmptyAnonymousSetError is returned when a constraint references an
// anonymous set with zero members.
type EmptyAnonymousSetError struct{}

func (e *EmptyAnonymousSetError) Error() string {
	return "schedule: anonymous system set is empty"
}

// CyclesError is returned when the working graph contains one or more
// strongly-connected components of size greater than one.
type CyclesError struct {
	NamedSet typesig.StableId
	Cycles   [][]typesig.SystemId
}

func (e *CyclesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schedule: %d cycle(s) detected", len(e.Cycles))
	for i, c := range e.Cycles {
		fmt.Fprintf(&b, "; cycle %d: %v", i, c)
	}
	return b.String()
}
