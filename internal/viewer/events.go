package viewer

import (
	"arcview/internal/edit"
	"arcview/internal/puzzles"
)

// Event is one abstract input to the coordinator. The UI binding layer
// translates raw terminal messages into these.
type Event interface {
	event()
}

// Canvas surface events. Cell is the cell under the pointer; Pos is the
// pointer position relative to the canvas origin in sizer units.
type (
	PointerDown struct{ Cell edit.Cell }
	PointerMove struct {
		Cell edit.Cell
		Pos  edit.Point
	}
	PointerUp     struct{}
	PointerCancel struct{}
	PointerClick  struct{ Pos edit.Point }
	PointerLeave  struct{}
	PointerEnter  struct{}
)

type (
	TabActivated    struct{ Tab Tab }
	Resize          struct{ Width int }
	NavigateExample struct{ Delta int }
	NavigatePuzzle  struct{ Delta int }
	JumpTo          struct{ ID string }
	// LocationChanged is an externally driven change of the addressable
	// location, such as a direct link.
	LocationChanged struct{ Token string }
	// HistoryStep walks the location history back (-1) or forward (+1).
	HistoryStep struct{ Delta int }
	SelectColor struct{ Color int }
	ToggleStamp struct{}
	CopyInput   struct{}
	// CopyInputScaled resizes the test input onto the canvas with
	// nearest-neighbour sampling.
	CopyInputScaled struct{}
	Clear           struct{}
	Submit          struct{}
	Reveal          struct{}
)

// ListLoaded delivers the result of Coordinator.FetchList.
type ListLoaded struct {
	IDs []string
	Err error
}

// LoadCompleted delivers the result of Coordinator.Fetch.
type LoadCompleted struct {
	Request LoadRequest
	Doc     *puzzles.Document
	Err     error
}

func (PointerDown) event()     {}
func (PointerMove) event()     {}
func (PointerUp) event()       {}
func (PointerCancel) event()   {}
func (PointerClick) event()    {}
func (PointerLeave) event()    {}
func (PointerEnter) event()    {}
func (TabActivated) event()    {}
func (Resize) event()          {}
func (NavigateExample) event() {}
func (NavigatePuzzle) event()  {}
func (JumpTo) event()          {}
func (LocationChanged) event() {}
func (HistoryStep) event()     {}
func (SelectColor) event()     {}
func (ToggleStamp) event()     {}
func (CopyInput) event()       {}
func (CopyInputScaled) event() {}
func (Clear) event()           {}
func (Submit) event()          {}
func (Reveal) event()          {}
func (ListLoaded) event()      {}
func (LoadCompleted) event()   {}

// LoadRequest asks the caller to fetch a document off the event loop and
// hand the result back as LoadCompleted.
type LoadRequest struct {
	Seq   uint64
	Index int
	ID    string
}

// Verdict is the result of comparing the canvas to the answer key.
type Verdict struct {
	PuzzleID   string
	Passed     bool
	ShapeMatch bool
	Mismatches int
	Revealed   bool
}

func (v Verdict) Message() string {
	if v.Passed {
		return "Correct!"
	}
	return "Try again!"
}

// Outcome reports what a dispatched event did.
type Outcome struct {
	// Changed is set when anything visible changed.
	Changed bool
	Load    *LoadRequest
	Verdict *Verdict
	// Loaded is the identifier of a document that was just applied.
	Loaded string
	Err    error
}
